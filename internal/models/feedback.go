package models

import "time"

// CourseFeedback stores a student's free-form feedback on a course.
type CourseFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Message   string    `gorm:"type:text" json:"message"`
	Checksum  string    `gorm:"size:64;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
