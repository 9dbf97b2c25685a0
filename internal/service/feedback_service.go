package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
)

var (
	// ErrFeedbackSpam indicates the honeypot field was filled.
	ErrFeedbackSpam = errors.New("feedback submission flagged as spam")
	// ErrFeedbackDuplicate indicates an identical submission exists recently.
	ErrFeedbackDuplicate = errors.New("duplicate feedback submission")
)

// FeedbackService exposes the course feedback workflow.
type FeedbackService interface {
	Submit(ctx context.Context, payload dto.FeedbackRequest) (dto.FeedbackResponse, error)
	ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo      repository.FeedbackRepository
	cache     *redis.Client
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	dedupeTTL time.Duration
}

// NewFeedbackService constructs a feedback service. The redis client is
// optional; without it duplicate detection is skipped.
func NewFeedbackService(repo repository.FeedbackRepository, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		repo:      repo,
		cache:     cache,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		dedupeTTL: 5 * time.Minute,
	}
}

func (s *feedbackService) Submit(ctx context.Context, payload dto.FeedbackRequest) (dto.FeedbackResponse, error) {
	if payload.Website != "" {
		return dto.FeedbackResponse{}, ErrFeedbackSpam
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.FeedbackResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	checksum := feedbackChecksum(payload.CourseID, payload.StudentID, payload.Rating, message)

	if s.cache != nil {
		key := "feedback:dedupe:" + checksum
		set, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to check feedback dedupe cache")
		} else if !set {
			return dto.FeedbackResponse{}, ErrFeedbackDuplicate
		}
	}

	feedback := models.CourseFeedback{
		CourseID:  payload.CourseID,
		StudentID: payload.StudentID,
		Rating:    payload.Rating,
		Message:   message,
		Checksum:  checksum,
	}

	if err := s.repo.Create(ctx, &feedback); err != nil {
		return dto.FeedbackResponse{}, err
	}

	s.logger.Info().Uint("feedback_id", feedback.ID).Uint("course_id", feedback.CourseID).Msg("course feedback stored")

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]dto.FeedbackResponse, error) {
	entries, err := s.repo.ListByCourse(ctx, courseID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewFeedbackResponseSlice(entries), nil
}

func feedbackChecksum(courseID, studentID uint, rating int, message string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%d:%s", courseID, studentID, rating, message)))
	return hex.EncodeToString(sum[:])
}
