package dto

import (
	"time"

	"github.com/courseloop/courseloop-api/internal/models"
)

// ForumThreadCreateRequest opens a new Q&A thread on a course.
type ForumThreadCreateRequest struct {
	CourseID uint   `json:"course_id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"omitempty,max=10000"`
}

// ForumReplyCreateRequest answers an existing thread.
type ForumReplyCreateRequest struct {
	ThreadID uint   `json:"thread_id" validate:"required,gt=0"`
	Body     string `json:"body" validate:"required,min=1,max=10000"`
}

// ForumReplyResponse serializes one reply.
type ForumReplyResponse struct {
	ID        uint      `json:"id"`
	ThreadID  uint      `json:"thread_id"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ForumThreadResponse serializes one thread, optionally with replies.
type ForumThreadResponse struct {
	ID        uint                 `json:"id"`
	CourseID  uint                 `json:"course_id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	AuthorID  string               `json:"author_id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Replies   []ForumReplyResponse `json:"replies,omitempty"`
}

// NewForumReplyResponse converts a reply model into a DTO.
func NewForumReplyResponse(model models.ForumReply) ForumReplyResponse {
	return ForumReplyResponse{
		ID:        model.ID,
		ThreadID:  model.ThreadID,
		Body:      model.Body,
		AuthorID:  model.AuthorID,
		CreatedAt: model.CreatedAt,
	}
}

// NewForumReplyResponseSlice converts reply models into DTOs.
func NewForumReplyResponseSlice(replies []models.ForumReply) []ForumReplyResponse {
	responses := make([]ForumReplyResponse, 0, len(replies))
	for _, reply := range replies {
		responses = append(responses, NewForumReplyResponse(reply))
	}
	return responses
}

// NewForumThreadResponse converts a thread model into a DTO.
func NewForumThreadResponse(model models.ForumThread) ForumThreadResponse {
	response := ForumThreadResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Body:      model.Body,
		AuthorID:  model.AuthorID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if len(model.Replies) > 0 {
		response.Replies = NewForumReplyResponseSlice(model.Replies)
	}

	return response
}

// NewForumThreadResponseSlice converts thread models into DTOs.
func NewForumThreadResponseSlice(threads []models.ForumThread) []ForumThreadResponse {
	responses := make([]ForumThreadResponse, 0, len(threads))
	for _, thread := range threads {
		responses = append(responses, NewForumThreadResponse(thread))
	}
	return responses
}
