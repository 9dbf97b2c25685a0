package models

import "time"

// Stored submission statuses. A submission without a row is classified
// separately as "no_submission"; that value is never persisted.
const (
	// SubmissionStatusDraft indicates answers are still editable.
	SubmissionStatusDraft = "draft"
	// SubmissionStatusSubmitted indicates the submission was finalized before the due date.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusLate indicates the submission was finalized after the due date.
	SubmissionStatusLate = "late"
)

// Submission represents one student's attempt at an assignment.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;index" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;index" json:"student_id"`
	Status       string     `gorm:"size:32;not null" json:"status"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	Score        *int       `json:"score"`
	Feedback     string     `gorm:"type:text" json:"feedback"`
	GradedAt     *time.Time `json:"graded_at"`
	GradedBy     *uint      `json:"graded_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Answers      []Answer   `gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
	Assignment   Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	History      []SubmissionGradeHistory
}

// IsTerminal reports whether the submission has been finalized. Terminal
// submissions lock further answer edits and become gradable.
func (s Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusSubmitted || s.Status == SubmissionStatusLate
}

// IsGraded reports whether a teacher has attached a score.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}

// Answer holds a student's response to a single question. Content carries
// free text, selected option labels, or an uploaded-file URL depending on
// the referenced question's type.
type Answer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	QuestionID   uint      `gorm:"not null;index" json:"question_id"`
	Content      string    `gorm:"type:text" json:"content"`
	Type         string    `gorm:"size:32;not null" json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SubmissionGradeHistory records every grading pass for audit and re-grading.
type SubmissionGradeHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Score        int       `json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	GradedBy     uint      `json:"graded_by"`
	GradedAt     time.Time `json:"graded_at"`
}
