package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Assignment types supported by the authoring flow.
const (
	AssignmentTypeHomework = "homework"
	AssignmentTypeExam     = "exam"
)

// Question types supported by the authoring flow.
const (
	QuestionTypeText           = "text"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeFile           = "file"
)

// Assignment represents a homework or exam definition with a points-weighted question set.
type Assignment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CourseID     uint       `gorm:"not null;index" json:"course_id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Instructions string     `gorm:"type:text" json:"instructions"`
	DueDate      time.Time  `gorm:"not null" json:"due_date"`
	Type         string     `gorm:"size:32;not null;default:homework" json:"type"`
	TimeLimit    *int       `json:"time_limit"`
	PassingScore *int       `json:"passing_score"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Questions    []Question `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
	Submissions  []Submission
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// IsExam reports whether the assignment is timed exam work.
func (a Assignment) IsExam() bool {
	return a.Type == AssignmentTypeExam
}

// TotalPoints sums the live question points. A persisted set totals 100, but
// an assignment authored before its questions exist may sum to less.
func (a Assignment) TotalPoints() int {
	total := 0
	for _, question := range a.Questions {
		total += question.Points
	}
	return total
}

// QuestionByID looks up a question on this assignment.
func (a Assignment) QuestionByID(id uint) (Question, bool) {
	for _, question := range a.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Question is one gradable prompt within an assignment.
type Question struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AssignmentID   uint           `gorm:"not null;index" json:"assignment_id"`
	Text           string         `gorm:"type:text;not null" json:"text"`
	Type           string         `gorm:"size:32;not null" json:"type"`
	Options        datatypes.JSON `gorm:"type:json" json:"-"`
	CorrectAnswers datatypes.JSON `gorm:"type:json" json:"-"`
	Order          int            `gorm:"column:position;not null" json:"order"`
	Points         int            `gorm:"not null" json:"points"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SetOptions serializes the option labels into the JSON storage column.
func (q *Question) SetOptions(options []string) {
	q.Options = marshalStringList(options)
}

// OptionList deserializes the stored option labels.
func (q Question) OptionList() []string {
	return unmarshalStringList(q.Options)
}

// SetCorrectAnswers serializes the correct option labels into the JSON storage column.
func (q *Question) SetCorrectAnswers(answers []string) {
	q.CorrectAnswers = marshalStringList(answers)
}

// CorrectAnswerList deserializes the stored correct option labels.
func (q Question) CorrectAnswerList() []string {
	return unmarshalStringList(q.CorrectAnswers)
}

func marshalStringList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func unmarshalStringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}

	return values
}
