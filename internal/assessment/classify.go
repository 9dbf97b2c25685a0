package assessment

import (
	"math"

	"github.com/courseloop/courseloop-api/internal/models"
)

// StatusNoSubmission is the derived status when no submission exists. It is
// never stored; persisted submissions carry draft, submitted or late.
const StatusNoSubmission = "no_submission"

// SubmissionState is the derived view of one student's standing on an
// assignment, used to gate which actions the student may take.
type SubmissionState struct {
	Status string `json:"status"`
	// IsReadOnly is true once the submission is terminal and answers are locked.
	IsReadOnly bool `json:"is_read_only"`
	// CanStart is true while the student may still create or edit answers.
	CanStart bool `json:"can_start"`
	// PassingPercentage is only set for exams with a configured passing score.
	PassingPercentage *int `json:"passing_percentage,omitempty"`
	// OrphanedQuestionIDs lists answers referencing questions no longer on the
	// assignment. Tolerated, but surfaced so the caller never renders a blank
	// question silently.
	OrphanedQuestionIDs []uint `json:"orphaned_question_ids,omitempty"`
}

// Classify maps an assignment and an optional submission to the four-way
// derived status plus actionability flags.
func Classify(assignment models.Assignment, submission *models.Submission) SubmissionState {
	state := SubmissionState{Status: StatusNoSubmission}

	if submission != nil {
		state.Status = submission.Status
		state.OrphanedQuestionIDs = orphanedQuestionIDs(assignment, submission.Answers)
	}

	state.IsReadOnly = state.Status == models.SubmissionStatusSubmitted || state.Status == models.SubmissionStatusLate
	state.CanStart = submission == nil || submission.Status == models.SubmissionStatusDraft

	if assignment.IsExam() && assignment.PassingScore != nil {
		// Use the live points sum rather than assuming 100 so the computation
		// degrades gracefully for assignments authored before their questions.
		if total := assignment.TotalPoints(); total > 0 {
			percentage := int(math.Round(float64(*assignment.PassingScore) / float64(total) * 100))
			state.PassingPercentage = &percentage
		}
	}

	return state
}

func orphanedQuestionIDs(assignment models.Assignment, answers []models.Answer) []uint {
	var orphaned []uint
	for _, answer := range answers {
		if _, ok := assignment.QuestionByID(answer.QuestionID); !ok {
			orphaned = append(orphaned, answer.QuestionID)
		}
	}
	return orphaned
}
