package dto

import (
	"time"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/models"
)

// QuestionPayload describes one question inside a create/update request.
// Question edits always submit the whole set so it can be validated as a unit.
type QuestionPayload struct {
	ID             uint     `json:"id"`
	Text           string   `json:"text" validate:"required"`
	Type           string   `json:"type" validate:"required,oneof=text multiple_choice file"`
	Options        []string `json:"options" validate:"omitempty,dive,max=255"`
	CorrectAnswers []string `json:"correct_answers" validate:"omitempty,dive,max=255"`
	Points         int      `json:"points"`
}

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	CourseID     uint              `json:"course_id" validate:"required,gt=0"`
	Title        string            `json:"title" validate:"required,min=3"`
	Description  string            `json:"description"`
	Instructions string            `json:"instructions"`
	DueDate      string            `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Type         string            `json:"type" validate:"required,oneof=homework exam"`
	TimeLimit    *int              `json:"time_limit" validate:"omitempty,gt=0"`
	PassingScore *int              `json:"passing_score" validate:"omitempty,gte=0"`
	Questions    []QuestionPayload `json:"questions"`
}

// AssignmentUpdateRequest describes the payload for updating an assignment.
// A nil Questions field leaves the stored question set untouched.
type AssignmentUpdateRequest struct {
	Title        *string            `json:"title" validate:"omitempty,min=3"`
	Description  *string            `json:"description"`
	Instructions *string            `json:"instructions"`
	DueDate      *string            `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Type         *string            `json:"type" validate:"omitempty,oneof=homework exam"`
	TimeLimit    *int               `json:"time_limit" validate:"omitempty,gt=0"`
	PassingScore *int               `json:"passing_score" validate:"omitempty,gte=0"`
	Questions    *[]QuestionPayload `json:"questions"`
}

// PointsSuggestionRequest asks for the even distribution for a set size.
type PointsSuggestionRequest struct {
	QuestionCount int `json:"question_count" validate:"required,gte=1"`
}

// PointsSuggestionResponse carries the even 100-point distribution.
type PointsSuggestionResponse struct {
	Points []int `json:"points"`
	Total  int   `json:"total"`
}

// QuestionResponse is the serialized question returned to API clients.
type QuestionResponse struct {
	ID             uint     `json:"id"`
	Text           string   `json:"text"`
	Type           string   `json:"type"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`
	Order          int      `json:"order"`
	Points         int      `json:"points"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID           uint               `json:"id"`
	CourseID     uint               `json:"course_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Instructions string             `json:"instructions"`
	DueDate      time.Time          `json:"due_date"`
	Type         string             `json:"type"`
	TimeLimit    *int               `json:"time_limit,omitempty"`
	PassingScore *int               `json:"passing_score,omitempty"`
	TotalPoints  int                `json:"total_points"`
	Questions    []QuestionResponse `json:"questions"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewQuestionResponse converts a question model into a DTO. Correct answers
// are only included when the caller authored the assignment.
func NewQuestionResponse(model models.Question, includeAnswers bool) QuestionResponse {
	response := QuestionResponse{
		ID:      model.ID,
		Text:    model.Text,
		Type:    model.Type,
		Options: model.OptionList(),
		Order:   model.Order,
		Points:  model.Points,
	}

	if includeAnswers {
		response.CorrectAnswers = model.CorrectAnswerList()
	}

	return response
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment, includeAnswers bool) AssignmentResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuestionResponse(question, includeAnswers))
	}

	return AssignmentResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Title:        model.Title,
		Description:  model.Description,
		Instructions: model.Instructions,
		DueDate:      model.DueDate,
		Type:         model.Type,
		TimeLimit:    model.TimeLimit,
		PassingScore: model.PassingScore,
		TotalPoints:  model.TotalPoints(),
		Questions:    questions,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, includeAnswers bool) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, includeAnswers))
	}

	return responses
}

// ToQuestionDrafts maps request payloads into the authoring drafts the
// question-set validator operates on.
func ToQuestionDrafts(payloads []QuestionPayload) []assessment.QuestionDraft {
	drafts := make([]assessment.QuestionDraft, 0, len(payloads))
	for i, payload := range payloads {
		drafts = append(drafts, assessment.QuestionDraft{
			ID:             payload.ID,
			Text:           payload.Text,
			Type:           payload.Type,
			Options:        payload.Options,
			CorrectAnswers: payload.CorrectAnswers,
			Order:          i,
			Points:         payload.Points,
		})
	}
	return drafts
}

// AssignmentListItemResponse is one row of the student-facing listing.
type AssignmentListItemResponse struct {
	Assignment AssignmentResponse         `json:"assignment"`
	State      assessment.SubmissionState `json:"state"`
}

// AssignmentListResponse is one page of the filtered, sorted listing.
type AssignmentListResponse struct {
	Items      []AssignmentListItemResponse `json:"items"`
	Total      int                          `json:"total"`
	TotalPages int                          `json:"total_pages"`
	Page       int                          `json:"page"`
	PageSize   int                          `json:"page_size"`
}

// NewAssignmentListResponse converts a listing page into the API shape.
func NewAssignmentListResponse(page assessment.Page) AssignmentListResponse {
	items := make([]AssignmentListItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, AssignmentListItemResponse{
			Assignment: NewAssignmentResponse(item.Assignment, false),
			State:      item.State,
		})
	}

	return AssignmentListResponse{
		Items:      items,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
}
