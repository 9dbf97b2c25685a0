package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/models"
)

// FeedbackRepository persists course feedback entries.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.CourseFeedback) error
	ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]models.CourseFeedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs a repository backed by GORM.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.CourseFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]models.CourseFeedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var entries []models.CourseFeedback
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
