package service

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
)

type fakeFeedbackRepo struct {
	entries []models.CourseFeedback
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.CourseFeedback) error {
	feedback.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *feedback)
	return nil
}

func (f *fakeFeedbackRepo) ListByCourse(ctx context.Context, courseID uint, limit, offset int) ([]models.CourseFeedback, error) {
	result := make([]models.CourseFeedback, 0, len(f.entries))
	for _, entry := range f.entries {
		if entry.CourseID == courseID {
			result = append(result, entry)
		}
	}
	return result, nil
}

var _ repository.FeedbackRepository = (*fakeFeedbackRepo)(nil)

func TestFeedbackServiceRejectsHoneypot(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewFeedbackService(repo, nil, validate, testLogger())

	_, err := svc.Submit(context.Background(), dto.FeedbackRequest{
		CourseID: 1, StudentID: 2, Rating: 5, Message: "great", Website: "http://spam.example",
	})
	require.ErrorIs(t, err, ErrFeedbackSpam)
	require.Empty(t, repo.entries)
}

func TestFeedbackServiceSanitizesMessage(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewFeedbackService(repo, nil, validate, testLogger())

	stored, err := svc.Submit(context.Background(), dto.FeedbackRequest{
		CourseID: 1, StudentID: 2, Rating: 4, Message: "<script>alert(1)</script>useful course",
	})
	require.NoError(t, err)
	require.Equal(t, "useful course", stored.Message)
}

func TestFeedbackServiceDeduplicatesWithRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := &fakeFeedbackRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewFeedbackService(repo, client, validate, testLogger())

	payload := dto.FeedbackRequest{CourseID: 1, StudentID: 2, Rating: 5, Message: "great"}

	_, err = svc.Submit(context.Background(), payload)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), payload)
	require.ErrorIs(t, err, ErrFeedbackDuplicate)
	require.Len(t, repo.entries, 1)
}

func TestFeedbackServiceListByCourse(t *testing.T) {
	repo := &fakeFeedbackRepo{entries: []models.CourseFeedback{
		{ID: 1, CourseID: 1, StudentID: 2, Rating: 5, Message: "great"},
		{ID: 2, CourseID: 9, StudentID: 2, Rating: 1, Message: "meh"},
	}}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewFeedbackService(repo, nil, validate, testLogger())

	entries, err := svc.ListByCourse(context.Background(), 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint(1), entries[0].CourseID)
}
