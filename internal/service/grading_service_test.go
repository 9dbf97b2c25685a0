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

type recordingPublisher struct {
	published []dto.NotificationCreateRequest
}

func (r *recordingPublisher) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	r.published = append(r.published, payload)
	return dto.NotificationResponse{ID: uint(len(r.published))}, nil
}

func newGradingServiceForTest(submissions *fakeSubmissionRepo, publisher NotificationPublisher, now func() time.Time) GradingService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewGradingService(submissions, publisher, validate, testLogger()).(*gradingService)
	if now != nil {
		svc.now = now
	}
	return svc
}

func gradableSubmission() models.Submission {
	return models.Submission{
		ID:           1,
		AssignmentID: 2,
		StudentID:    3,
		Status:       models.SubmissionStatusSubmitted,
		Assignment: models.Assignment{
			ID:    2,
			Title: "Essay",
			Questions: []models.Question{
				{ID: 1, Text: "Part one", Type: models.QuestionTypeText, Points: 25},
				{ID: 2, Text: "Part two", Type: models.QuestionTypeText, Points: 15},
			},
		},
	}
}

func TestGradingServiceRejectsScoreOutOfRange(t *testing.T) {
	submissions := newFakeSubmissionRepo(gradableSubmission())
	svc := newGradingServiceForTest(submissions, nil, nil)

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 41}, 7)
	var outOfRange *assessment.ScoreOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	require.Equal(t, 41, outOfRange.Score)
	require.Equal(t, 40, outOfRange.Max)
	require.Equal(t, 0, submissions.updateCalls)

	_, err = svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: -1}, 7)
	require.ErrorAs(t, err, &outOfRange)
}

func TestGradingServiceAcceptsBoundaryScores(t *testing.T) {
	submissions := newFakeSubmissionRepo(gradableSubmission())
	svc := newGradingServiceForTest(submissions, nil, nil)

	graded, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 0}, 7)
	require.NoError(t, err)
	require.Equal(t, 0, *graded.Score)

	graded, err = svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 40}, 7)
	require.NoError(t, err)
	require.Equal(t, 40, *graded.Score)
}

func TestGradingServiceTrimsFeedbackAndStampsGrader(t *testing.T) {
	gradedAt := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	submissions := newFakeSubmissionRepo(gradableSubmission())
	publisher := &recordingPublisher{}
	svc := newGradingServiceForTest(submissions, publisher, func() time.Time { return gradedAt })

	graded, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 35, Feedback: "  good job  "}, 7)
	require.NoError(t, err)
	require.Equal(t, "good job", graded.Feedback)
	require.Equal(t, uint(7), *graded.GradedBy)
	require.Equal(t, gradedAt, *graded.GradedAt)

	require.Equal(t, 1, submissions.historyCalls)
	require.Len(t, publisher.published, 1)
	require.Equal(t, "submission.graded", publisher.published[0].Type)
}

func TestGradingServiceIdempotentRegrade(t *testing.T) {
	submission := gradableSubmission()
	score := 35
	gradedBy := uint(7)
	gradedAt := time.Now().Add(-time.Hour)
	submission.Score = &score
	submission.Feedback = "good job"
	submission.GradedBy = &gradedBy
	submission.GradedAt = &gradedAt

	submissions := newFakeSubmissionRepo(submission)
	svc := newGradingServiceForTest(submissions, nil, nil)

	graded, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 35, Feedback: " good job "}, 7)
	require.NoError(t, err)
	require.Equal(t, 35, *graded.Score)
	require.Equal(t, 0, submissions.updateCalls)
	require.Equal(t, 0, submissions.historyCalls)
}

func TestGradingServiceRequiresFinalizedSubmission(t *testing.T) {
	submission := gradableSubmission()
	submission.Status = models.SubmissionStatusDraft
	submissions := newFakeSubmissionRepo(submission)
	svc := newGradingServiceForTest(submissions, nil, nil)

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 10}, 7)
	require.ErrorIs(t, err, ErrSubmissionNotGradable)
}

func TestGradingServiceMissingSubmission(t *testing.T) {
	svc := newGradingServiceForTest(newFakeSubmissionRepo(), nil, nil)

	_, err := svc.Grade(context.Background(), 404, dto.GradeSubmissionRequest{Score: 10}, 7)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestGradingServiceGradesLateSubmission(t *testing.T) {
	submission := gradableSubmission()
	submission.Status = models.SubmissionStatusLate
	submissions := newFakeSubmissionRepo(submission)
	svc := newGradingServiceForTest(submissions, nil, nil)

	graded, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{Score: 20}, 7)
	require.NoError(t, err)
	require.Equal(t, 20, *graded.Score)
	require.Equal(t, models.SubmissionStatusLate, graded.Status)
}
