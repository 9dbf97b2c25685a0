// Package assessment holds the pure business rules for assignment authoring,
// submission classification and grading. Every function operates on in-memory
// snapshots, keeps no state between calls and is safe to invoke concurrently.
package assessment

import "fmt"

// Validation error codes returned by ValidateQuestionSet.
const (
	// CodeEmptyText flags a question whose trimmed text is empty.
	CodeEmptyText = "empty_text"
	// CodeNonPositivePoints flags a question worth zero or negative points.
	CodeNonPositivePoints = "non_positive_points"
	// CodeMultipleChoiceOptions flags a multiple-choice question with fewer than two usable options.
	CodeMultipleChoiceOptions = "multiple_choice_options"
	// CodeMultipleChoiceAnswers flags a multiple-choice question whose correct answers are empty or unknown.
	CodeMultipleChoiceAnswers = "multiple_choice_answers"
	// CodePointsSumMismatch flags a question set whose points do not total exactly 100.
	CodePointsSumMismatch = "points_sum_mismatch"
)

// SetWideIndex marks a ValidationError that applies to the whole question set
// rather than one question.
const SetWideIndex = -1

// ValidationError describes one user-correctable authoring problem. These are
// returned as values so a caller can render every problem at once.
type ValidationError struct {
	Code          string `json:"code"`
	QuestionIndex int    `json:"question_index"`
	Value         int    `json:"value,omitempty"`
	Message       string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.QuestionIndex == SetWideIndex {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s (question %d): %s", e.Code, e.QuestionIndex, e.Message)
}

// ScoreOutOfRangeError rejects a grading score outside [0, Max].
type ScoreOutOfRangeError struct {
	Score int
	Max   int
}

// Error implements the error interface.
func (e *ScoreOutOfRangeError) Error() string {
	return fmt.Sprintf("score %d out of range [0, %d]", e.Score, e.Max)
}
