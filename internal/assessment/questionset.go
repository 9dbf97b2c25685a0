package assessment

import (
	"fmt"
	"strings"

	"github.com/courseloop/courseloop-api/internal/models"
)

// QuestionDraft is the authoring-time view of a question, before persistence.
type QuestionDraft struct {
	ID             uint     `json:"id"`
	Text           string   `json:"text"`
	Type           string   `json:"type"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	Order          int      `json:"order"`
	Points         int      `json:"points"`
}

// ValidationResult collects every problem found in a proposed question set.
// When the only way to fix the set is rebalancing points, Suggested carries
// the even distribution the UI can offer as a one-click remediation.
type ValidationResult struct {
	Errors    []ValidationError `json:"errors"`
	Suggested []int             `json:"suggested_points,omitempty"`
}

// Valid reports whether the set passed every check.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateQuestionSet checks the full proposed question list for one
// assignment. Per-question rules and the set-wide points-sum rule are all
// evaluated; nothing short-circuits, so the caller can display every error at
// once. On success the drafts are re-numbered to match list position.
func ValidateQuestionSet(questions []QuestionDraft) ValidationResult {
	result := ValidationResult{}

	for i, question := range questions {
		if strings.TrimSpace(question.Text) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Code:          CodeEmptyText,
				QuestionIndex: i,
				Message:       "question text must not be empty",
			})
		}

		if question.Points <= 0 {
			result.Errors = append(result.Errors, ValidationError{
				Code:          CodeNonPositivePoints,
				QuestionIndex: i,
				Value:         question.Points,
				Message:       "question points must be positive",
			})
		}

		if question.Type != models.QuestionTypeMultipleChoice {
			continue
		}

		options := nonBlank(question.Options)
		if len(options) < 2 {
			result.Errors = append(result.Errors, ValidationError{
				Code:          CodeMultipleChoiceOptions,
				QuestionIndex: i,
				Value:         len(options),
				Message:       "multiple choice questions need at least two options",
			})
		}

		if !answersSubsetOfOptions(question.CorrectAnswers, options) {
			result.Errors = append(result.Errors, ValidationError{
				Code:          CodeMultipleChoiceAnswers,
				QuestionIndex: i,
				Value:         len(question.CorrectAnswers),
				Message:       "correct answers must be a non-empty subset of the options",
			})
		}
	}

	// The sum rule is checked independently of per-question errors.
	sum := 0
	for _, question := range questions {
		sum += question.Points
	}
	if sum != TotalAssignmentPoints {
		result.Errors = append(result.Errors, ValidationError{
			Code:          CodePointsSumMismatch,
			QuestionIndex: SetWideIndex,
			Value:         sum,
			Message:       fmt.Sprintf("question points sum to %d, expected %d", sum, TotalAssignmentPoints),
		})
		if len(questions) > 0 {
			result.Suggested = DistributePoints(len(questions))
		}
	}

	if result.Valid() {
		for i := range questions {
			questions[i].Order = i
		}
	}

	return result
}

// RemoveOption drops one option label from a multiple-choice draft and also
// removes it from the correct answers, keeping the two lists referentially
// consistent. Removing an already-absent option is a no-op.
func RemoveOption(question *QuestionDraft, option string) {
	question.Options = removeValue(question.Options, option)
	question.CorrectAnswers = removeValue(question.CorrectAnswers, option)
}

func nonBlank(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			result = append(result, value)
		}
	}
	return result
}

func answersSubsetOfOptions(answers, options []string) bool {
	if len(answers) == 0 {
		return false
	}

	known := make(map[string]struct{}, len(options))
	for _, option := range options {
		known[option] = struct{}{}
	}

	for _, answer := range answers {
		if _, ok := known[answer]; !ok {
			return false
		}
	}

	return true
}

func removeValue(values []string, target string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value != target {
			result = append(result, value)
		}
	}
	return result
}
