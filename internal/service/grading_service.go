package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/observability"
	"github.com/courseloop/courseloop-api/internal/repository"
)

// ErrSubmissionNotGradable indicates grading was attempted on a non-terminal submission.
var ErrSubmissionNotGradable = errors.New("only finalized submissions can be graded")

// GradingService encapsulates the teacher grading workflow. Validation is
// delegated to the pure grading rules; this layer owns persistence, audit
// history and the outcome notification.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, graderID uint) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions   repository.SubmissionRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	now           func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(submissions repository.SubmissionRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions:   submissions,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "grading_service").Logger(),
		now:           time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, graderID uint) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/courseloop/courseloop-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.grader_id", int64(graderID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if !submission.IsTerminal() {
		span.SetStatus(codes.Error, "submission_not_gradable")
		return dto.SubmissionResponse{}, ErrSubmissionNotGradable
	}

	grade, err := assessment.ValidateGrade(submission.Assignment.Questions, payload.Score, payload.Feedback, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_out_of_range")
		return dto.SubmissionResponse{}, err
	}

	// Re-grading with identical inputs is a no-op; skip the write and the
	// duplicate history row.
	if submission.Score != nil && *submission.Score == grade.Score &&
		strings.TrimSpace(submission.Feedback) == grade.Feedback &&
		submission.GradedBy != nil && *submission.GradedBy == graderID {
		span.SetAttributes(attribute.Bool("grading.idempotent", true))
		return dto.NewSubmissionResponse(submission), nil
	}

	score := grade.Score
	gradedAt := grade.GradedAt
	gradedBy := graderID
	submission.Score = &score
	submission.Feedback = grade.Feedback
	submission.GradedAt = &gradedAt
	submission.GradedBy = &gradedBy

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	history := models.SubmissionGradeHistory{
		SubmissionID: submission.ID,
		Score:        grade.Score,
		Feedback:     grade.Feedback,
		GradedBy:     graderID,
		GradedAt:     gradedAt,
	}
	if err := s.submissions.CreateGradeHistory(ctx, &history); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist grading history")
		span.RecordError(err)
	}

	// The outcome must reach the student even if the triggering request was
	// abandoned; publishing failures are logged but never fail the grade.
	if s.notifications != nil {
		_, notifyErr := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  fmt.Sprintf("%d", submission.StudentID),
			Type:    "submission.graded",
			Message: fmt.Sprintf("Your submission for %q was graded: %d points", submission.Assignment.Title, grade.Score),
		})
		if notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Uint("submission_id", submission.ID).Msg("failed to publish grade notification")
		}
	}

	observability.GradesRecordedTotal().WithLabelValues(submission.Status).Inc()

	span.SetAttributes(attribute.Int("grading.score", grade.Score))
	s.logger.Info().
		Uint("submission_id", submission.ID).
		Int("score", grade.Score).
		Uint("graded_by", graderID).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}
