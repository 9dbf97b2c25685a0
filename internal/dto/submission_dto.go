package dto

import (
	"encoding/json"
	"time"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/models"
)

// AnswerPayload is one saved answer inside a draft update. Content semantics
// depend on the referenced question's type: free text, selected option
// labels (JSON array), or an uploaded-file URL.
type AnswerPayload struct {
	QuestionID uint   `json:"question_id" validate:"required,gt=0"`
	Content    string `json:"content"`
}

// SaveAnswersRequest replaces the draft's saved answers as a whole.
type SaveAnswersRequest struct {
	AssignmentID uint            `json:"assignment_id" validate:"required,gt=0"`
	Answers      []AnswerPayload `json:"answers" validate:"dive"`
}

// GradeSubmissionRequest carries a teacher's proposed score and feedback.
type GradeSubmissionRequest struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// AnswerView is the tagged interpretation of one stored answer, keyed by the
// referenced question's type so a text answer can never be mistaken for a
// file reference.
type AnswerView struct {
	QuestionID      uint     `json:"question_id"`
	Type            string   `json:"type"`
	Text            string   `json:"text,omitempty"`
	SelectedOptions []string `json:"selected_options,omitempty"`
	FileURL         string   `json:"file_url,omitempty"`
	// Orphaned marks an answer whose question was removed after submission.
	Orphaned bool `json:"orphaned,omitempty"`
}

// NewAnswerView interprets a stored answer against the assignment's current
// question list.
func NewAnswerView(answer models.Answer, assignment models.Assignment) AnswerView {
	view := AnswerView{QuestionID: answer.QuestionID, Type: answer.Type}

	question, ok := assignment.QuestionByID(answer.QuestionID)
	if !ok {
		view.Orphaned = true
	} else {
		view.Type = question.Type
	}

	switch view.Type {
	case models.QuestionTypeMultipleChoice:
		view.SelectedOptions = decodeSelectedOptions(answer.Content)
	case models.QuestionTypeFile:
		view.FileURL = answer.Content
	default:
		view.Text = answer.Content
	}

	return view
}

// decodeSelectedOptions reads the JSON-encoded label list; a bare label is
// tolerated as a single selection for older rows.
func decodeSelectedOptions(content string) []string {
	if content == "" {
		return nil
	}

	var labels []string
	if err := json.Unmarshal([]byte(content), &labels); err == nil {
		return labels
	}

	return []string{content}
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint                       `json:"id"`
	AssignmentID uint                       `json:"assignment_id"`
	StudentID    uint                       `json:"student_id"`
	Status       string                     `json:"status"`
	SubmittedAt  *time.Time                 `json:"submitted_at"`
	Score        *int                       `json:"score"`
	Feedback     string                     `json:"feedback"`
	GradedAt     *time.Time                 `json:"graded_at"`
	GradedBy     *uint                      `json:"graded_by"`
	Answers      []AnswerView               `json:"answers"`
	State        assessment.SubmissionState `json:"state"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Assignment   AssignmentLite             `json:"assignment"`
	Student      StudentLite                `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	DueDate     time.Time `json:"due_date"`
	TotalPoints int       `json:"total_points"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmissionStateResponse is the student-facing derived state for one
// assignment, returned even when no submission exists yet.
type SubmissionStateResponse struct {
	AssignmentID uint                       `json:"assignment_id"`
	Submission   *SubmissionResponse        `json:"submission,omitempty"`
	State        assessment.SubmissionState `json:"state"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	answers := make([]AnswerView, 0, len(model.Answers))
	for _, answer := range model.Answers {
		answers = append(answers, NewAnswerView(answer, model.Assignment))
	}

	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		SubmittedAt:  model.SubmittedAt,
		Score:        model.Score,
		Feedback:     model.Feedback,
		GradedAt:     model.GradedAt,
		GradedBy:     model.GradedBy,
		Answers:      answers,
		State:        assessment.Classify(model.Assignment, &model),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:          model.Assignment.ID,
			Title:       model.Assignment.Title,
			Type:        model.Assignment.Type,
			DueDate:     model.Assignment.DueDate,
			TotalPoints: model.Assignment.TotalPoints(),
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

// EncodeSelectedOptions serializes multiple-choice selections into the single
// content string stored on an answer row.
func EncodeSelectedOptions(labels []string) string {
	data, err := json.Marshal(labels)
	if err != nil {
		return "[]"
	}
	return string(data)
}
