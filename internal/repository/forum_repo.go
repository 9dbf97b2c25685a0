package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/models"
)

// ForumRepository handles persistence for course Q&A threads and replies.
type ForumRepository interface {
	ListThreads(ctx context.Context, courseID uint, limit, offset int) ([]models.ForumThread, error)
	GetThread(ctx context.Context, id uint) (models.ForumThread, error)
	GetThreadWithReplies(ctx context.Context, id uint) (models.ForumThread, error)
	CreateThread(ctx context.Context, thread *models.ForumThread) error
	DeleteThread(ctx context.Context, id uint) error
	ListReplies(ctx context.Context, threadID uint, limit, offset int) ([]models.ForumReply, error)
	CreateReply(ctx context.Context, reply *models.ForumReply) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository constructs a repository backed by GORM.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) ListThreads(ctx context.Context, courseID uint, limit, offset int) ([]models.ForumThread, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var threads []models.ForumThread
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

func (r *forumRepository) GetThread(ctx context.Context, id uint) (models.ForumThread, error) {
	var thread models.ForumThread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		return models.ForumThread{}, err
	}
	return thread, nil
}

func (r *forumRepository) GetThreadWithReplies(ctx context.Context, id uint) (models.ForumThread, error) {
	var thread models.ForumThread
	if err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&thread, id).Error; err != nil {
		return models.ForumThread{}, err
	}
	return thread, nil
}

func (r *forumRepository) CreateThread(ctx context.Context, thread *models.ForumThread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *forumRepository) DeleteThread(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ForumThread{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *forumRepository) ListReplies(ctx context.Context, threadID uint, limit, offset int) ([]models.ForumReply, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var replies []models.ForumReply
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&replies).Error; err != nil {
		return nil, err
	}

	return replies, nil
}

func (r *forumRepository) CreateReply(ctx context.Context, reply *models.ForumReply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}
