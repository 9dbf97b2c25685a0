package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/courseloop/courseloop-api/internal/models"
)

func classifyAssignment() models.Assignment {
	return models.Assignment{
		ID:      1,
		Title:   "Midterm",
		Type:    models.AssignmentTypeHomework,
		DueDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Questions: []models.Question{
			{ID: 10, Text: "q1", Type: models.QuestionTypeText, Points: 50},
			{ID: 11, Text: "q2", Type: models.QuestionTypeText, Points: 50},
		},
	}
}

func TestClassifyNoSubmission(t *testing.T) {
	state := Classify(classifyAssignment(), nil)

	require.Equal(t, StatusNoSubmission, state.Status)
	require.True(t, state.CanStart)
	require.False(t, state.IsReadOnly)
}

func TestClassifyStoredStatuses(t *testing.T) {
	cases := []struct {
		status     string
		canStart   bool
		isReadOnly bool
	}{
		{status: models.SubmissionStatusDraft, canStart: true, isReadOnly: false},
		{status: models.SubmissionStatusSubmitted, canStart: false, isReadOnly: true},
		{status: models.SubmissionStatusLate, canStart: false, isReadOnly: true},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			submission := &models.Submission{Status: tc.status}
			state := Classify(classifyAssignment(), submission)

			require.Equal(t, tc.status, state.Status)
			require.Equal(t, tc.canStart, state.CanStart)
			require.Equal(t, tc.isReadOnly, state.IsReadOnly)
		})
	}
}

func TestClassifyPassingPercentage(t *testing.T) {
	passing := 60
	assignment := classifyAssignment()
	assignment.Type = models.AssignmentTypeExam
	assignment.PassingScore = &passing

	state := Classify(assignment, nil)

	require.NotNil(t, state.PassingPercentage)
	require.Equal(t, 60, *state.PassingPercentage)
}

func TestClassifyPassingPercentageUsesLivePoints(t *testing.T) {
	passing := 30
	assignment := classifyAssignment()
	assignment.Type = models.AssignmentTypeExam
	assignment.PassingScore = &passing
	assignment.Questions = []models.Question{
		{ID: 10, Text: "q1", Type: models.QuestionTypeText, Points: 40},
	}

	state := Classify(assignment, nil)

	require.NotNil(t, state.PassingPercentage)
	require.Equal(t, 75, *state.PassingPercentage)
}

func TestClassifyPassingPercentageSkippedWithoutQuestions(t *testing.T) {
	passing := 60
	assignment := classifyAssignment()
	assignment.Type = models.AssignmentTypeExam
	assignment.PassingScore = &passing
	assignment.Questions = nil

	state := Classify(assignment, nil)

	require.Nil(t, state.PassingPercentage)
}

func TestClassifyPassingPercentageHomeworkIgnored(t *testing.T) {
	passing := 60
	assignment := classifyAssignment()
	assignment.PassingScore = &passing

	state := Classify(assignment, nil)

	require.Nil(t, state.PassingPercentage)
}

func TestClassifySurfacesOrphanedAnswers(t *testing.T) {
	submission := &models.Submission{
		Status: models.SubmissionStatusSubmitted,
		Answers: []models.Answer{
			{QuestionID: 10, Content: "fine", Type: models.QuestionTypeText},
			{QuestionID: 99, Content: "question was deleted", Type: models.QuestionTypeText},
		},
	}

	state := Classify(classifyAssignment(), submission)

	require.Equal(t, []uint{99}, state.OrphanedQuestionIDs)
}
