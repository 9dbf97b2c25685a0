package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
)

func newSubmissionServiceForTest(submissions *fakeSubmissionRepo, assignments *fakeAssignmentRepo, now func() time.Time) SubmissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(submissions, assignments, validate, testLogger()).(*submissionService)
	if now != nil {
		svc.now = now
	}
	return svc
}

func testAssignment(id uint, due time.Time) models.Assignment {
	return models.Assignment{
		ID:       id,
		CourseID: 1,
		Title:    "Homework",
		DueDate:  due,
		Type:     models.AssignmentTypeHomework,
		Questions: []models.Question{
			{ID: 10, Text: "Explain", Type: models.QuestionTypeText, Points: 100},
		},
	}
}

func TestSubmissionServiceSaveAnswersCreatesDraft(t *testing.T) {
	assignments := newFakeAssignmentRepo(testAssignment(1, time.Now().Add(time.Hour)))
	submissions := newFakeSubmissionRepo()
	svc := newSubmissionServiceForTest(submissions, assignments, nil)

	saved, err := svc.SaveAnswers(context.Background(), 9, dto.SaveAnswersRequest{
		AssignmentID: 1,
		Answers:      []dto.AnswerPayload{{QuestionID: 10, Content: "Because"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDraft, saved.Status)
	require.Len(t, saved.Answers, 1)
	require.False(t, saved.State.IsReadOnly)
	require.True(t, saved.State.CanStart)
}

func TestSubmissionServiceSaveAnswersRejectsUnknownQuestion(t *testing.T) {
	assignments := newFakeAssignmentRepo(testAssignment(1, time.Now().Add(time.Hour)))
	svc := newSubmissionServiceForTest(newFakeSubmissionRepo(), assignments, nil)

	_, err := svc.SaveAnswers(context.Background(), 9, dto.SaveAnswersRequest{
		AssignmentID: 1,
		Answers:      []dto.AnswerPayload{{QuestionID: 999, Content: "?"}},
	})
	require.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestSubmissionServiceSaveAnswersRejectsFinalized(t *testing.T) {
	assignments := newFakeAssignmentRepo(testAssignment(1, time.Now().Add(time.Hour)))
	submissions := newFakeSubmissionRepo(models.Submission{
		ID: 1, AssignmentID: 1, StudentID: 9, Status: models.SubmissionStatusSubmitted,
	})
	svc := newSubmissionServiceForTest(submissions, assignments, nil)

	_, err := svc.SaveAnswers(context.Background(), 9, dto.SaveAnswersRequest{
		AssignmentID: 1,
		Answers:      []dto.AnswerPayload{{QuestionID: 10, Content: "too late"}},
	})
	require.ErrorIs(t, err, ErrSubmissionLocked)
}

func TestSubmissionServiceFinalizeBeforeDueDate(t *testing.T) {
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	assignment := testAssignment(1, due)
	assignments := newFakeAssignmentRepo(assignment)
	submissions := newFakeSubmissionRepo(models.Submission{
		ID: 1, AssignmentID: 1, StudentID: 9, Status: models.SubmissionStatusDraft, Assignment: assignment,
	})
	svc := newSubmissionServiceForTest(submissions, assignments, func() time.Time {
		return due.Add(-time.Minute)
	})

	finalized, err := svc.Finalize(context.Background(), 9, 1)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, finalized.Status)
	require.NotNil(t, finalized.SubmittedAt)
	require.True(t, finalized.State.IsReadOnly)
	require.False(t, finalized.State.CanStart)
}

func TestSubmissionServiceFinalizeAfterDueDateIsLate(t *testing.T) {
	due := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	assignment := testAssignment(1, due)
	assignments := newFakeAssignmentRepo(assignment)
	submissions := newFakeSubmissionRepo(models.Submission{
		ID: 1, AssignmentID: 1, StudentID: 9, Status: models.SubmissionStatusDraft, Assignment: assignment,
	})
	svc := newSubmissionServiceForTest(submissions, assignments, func() time.Time {
		return due.Add(time.Minute)
	})

	finalized, err := svc.Finalize(context.Background(), 9, 1)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusLate, finalized.Status)
}

func TestSubmissionServiceFinalizeTwice(t *testing.T) {
	assignment := testAssignment(1, time.Now().Add(time.Hour))
	assignments := newFakeAssignmentRepo(assignment)
	submissions := newFakeSubmissionRepo(models.Submission{
		ID: 1, AssignmentID: 1, StudentID: 9, Status: models.SubmissionStatusSubmitted, Assignment: assignment,
	})
	svc := newSubmissionServiceForTest(submissions, assignments, nil)

	_, err := svc.Finalize(context.Background(), 9, 1)
	require.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestSubmissionServiceFinalizeWithoutDraft(t *testing.T) {
	assignments := newFakeAssignmentRepo(testAssignment(1, time.Now().Add(time.Hour)))
	svc := newSubmissionServiceForTest(newFakeSubmissionRepo(), assignments, nil)

	_, err := svc.Finalize(context.Background(), 9, 1)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionServiceOwnStateWithoutSubmission(t *testing.T) {
	passing := 60
	assignment := testAssignment(1, time.Now().Add(time.Hour))
	assignment.Type = models.AssignmentTypeExam
	assignment.PassingScore = &passing
	assignments := newFakeAssignmentRepo(assignment)
	svc := newSubmissionServiceForTest(newFakeSubmissionRepo(), assignments, nil)

	state, err := svc.GetOwnState(context.Background(), 9, 1)
	require.NoError(t, err)
	require.Nil(t, state.Submission)
	require.Equal(t, assessment.StatusNoSubmission, state.State.Status)
	require.True(t, state.State.CanStart)
	require.NotNil(t, state.State.PassingPercentage)
	require.Equal(t, 60, *state.State.PassingPercentage)
}
