package dto

import (
	"time"

	"github.com/courseloop/courseloop-api/internal/models"
)

// FeedbackRequest carries a student's feedback on a course. Website is a
// honeypot field; humans leave it blank.
type FeedbackRequest struct {
	CourseID  uint   `json:"course_id" validate:"required,gt=0"`
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Message   string `json:"message" validate:"omitempty,max=5000"`
	Website   string `json:"website" validate:"omitempty,max=0"`
}

// FeedbackResponse serializes one stored feedback entry.
type FeedbackResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	StudentID uint      `json:"student_id"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFeedbackResponse converts a model into a DTO.
func NewFeedbackResponse(model models.CourseFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		StudentID: model.StudentID,
		Rating:    model.Rating,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
	}
}

// NewFeedbackResponseSlice converts feedback models into DTOs.
func NewFeedbackResponseSlice(entries []models.CourseFeedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewFeedbackResponse(entry))
	}
	return responses
}
