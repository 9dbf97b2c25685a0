package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
)

// ErrThreadNotFound indicates the forum thread does not exist.
var ErrThreadNotFound = errors.New("forum thread not found")

// ErrForumForbidden indicates the user attempted an operation they are not allowed to perform.
var ErrForumForbidden = errors.New("insufficient permissions for forum operation")

// ForumService exposes the course Q&A board use cases. Voting and search are
// deliberately not part of this service.
type ForumService interface {
	ListThreads(ctx context.Context, courseID uint, limit, offset int) ([]dto.ForumThreadResponse, error)
	GetThread(ctx context.Context, id uint, includeReplies bool) (dto.ForumThreadResponse, error)
	CreateThread(ctx context.Context, authorID, role string, payload dto.ForumThreadCreateRequest) (dto.ForumThreadResponse, error)
	DeleteThread(ctx context.Context, id uint, authorID, role string) error
	ListReplies(ctx context.Context, threadID uint, limit, offset int) ([]dto.ForumReplyResponse, error)
	CreateReply(ctx context.Context, authorID string, payload dto.ForumReplyCreateRequest) (dto.ForumReplyResponse, error)
}

type forumService struct {
	repo          repository.ForumRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
	now           func() time.Time
}

// NewForumService constructs a forum service.
func NewForumService(repo repository.ForumRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) ForumService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &forumService{
		repo:          repo,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "forum_service").Logger(),
		tracer:        otel.Tracer("github.com/courseloop/courseloop-api/internal/service/forum"),
		sanitizer:     policy,
		now:           time.Now,
	}
}

func (s *forumService) ListThreads(ctx context.Context, courseID uint, limit, offset int) ([]dto.ForumThreadResponse, error) {
	threads, err := s.repo.ListThreads(ctx, courseID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewForumThreadResponseSlice(threads), nil
}

func (s *forumService) GetThread(ctx context.Context, id uint, includeReplies bool) (dto.ForumThreadResponse, error) {
	var (
		thread models.ForumThread
		err    error
	)

	if includeReplies {
		thread, err = s.repo.GetThreadWithReplies(ctx, id)
	} else {
		thread, err = s.repo.GetThread(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumThreadResponse{}, ErrThreadNotFound
		}
		return dto.ForumThreadResponse{}, err
	}

	return dto.NewForumThreadResponse(thread), nil
}

func (s *forumService) CreateThread(ctx context.Context, authorID, role string, payload dto.ForumThreadCreateRequest) (dto.ForumThreadResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumThreadResponse{}, err
	}

	sanitizedTitle := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if sanitizedTitle == "" {
		return dto.ForumThreadResponse{}, errors.New("thread title empty after sanitization")
	}

	spanCtx, span := s.tracer.Start(ctx, "forum.create_thread", trace.WithAttributes(
		attribute.String("forum.author_id", authorID),
		attribute.Int64("forum.course_id", int64(payload.CourseID)),
	))
	defer span.End()

	thread := models.ForumThread{
		CourseID: payload.CourseID,
		Title:    sanitizedTitle,
		Body:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Body)),
		AuthorID: authorID,
		Metadata: datatypes.JSONMap{"created_by_role": role},
	}

	if err := s.repo.CreateThread(spanCtx, &thread); err != nil {
		span.RecordError(err)
		return dto.ForumThreadResponse{}, err
	}

	s.logger.Info().Uint("thread_id", thread.ID).Str("author_id", authorID).Msg("forum thread created")

	return dto.NewForumThreadResponse(thread), nil
}

func (s *forumService) DeleteThread(ctx context.Context, id uint, authorID, role string) error {
	thread, err := s.repo.GetThread(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThreadNotFound
		}
		return err
	}

	if thread.AuthorID != authorID && role != "teacher" && role != "admin" {
		return ErrForumForbidden
	}

	if err := s.repo.DeleteThread(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("thread_id", id).Str("deleted_by", authorID).Msg("forum thread deleted")
	return nil
}

func (s *forumService) ListReplies(ctx context.Context, threadID uint, limit, offset int) ([]dto.ForumReplyResponse, error) {
	replies, err := s.repo.ListReplies(ctx, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewForumReplyResponseSlice(replies), nil
}

func (s *forumService) CreateReply(ctx context.Context, authorID string, payload dto.ForumReplyCreateRequest) (dto.ForumReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForumReplyResponse{}, err
	}

	thread, err := s.repo.GetThread(ctx, payload.ThreadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ForumReplyResponse{}, ErrThreadNotFound
		}
		return dto.ForumReplyResponse{}, err
	}

	sanitizedBody := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if sanitizedBody == "" {
		return dto.ForumReplyResponse{}, errors.New("reply body empty after sanitization")
	}

	reply := models.ForumReply{
		ThreadID: payload.ThreadID,
		Body:     sanitizedBody,
		AuthorID: authorID,
	}

	if err := s.repo.CreateReply(ctx, &reply); err != nil {
		return dto.ForumReplyResponse{}, err
	}

	if s.notifications != nil && thread.AuthorID != authorID {
		_, notifyErr := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  thread.AuthorID,
			Type:    "forum.reply",
			Message: fmt.Sprintf("New reply on your question %q", thread.Title),
		})
		if notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Uint("thread_id", thread.ID).Msg("failed to publish reply notification")
		}
	}

	s.logger.Info().Uint("reply_id", reply.ID).Uint("thread_id", thread.ID).Msg("forum reply created")

	return dto.NewForumReplyResponse(reply), nil
}
