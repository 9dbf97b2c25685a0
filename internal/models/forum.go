package models

import (
	"time"

	"gorm.io/datatypes"
)

// ForumThread is a question posted on a course Q&A board.
type ForumThread struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	CourseID  uint              `gorm:"not null;index" json:"course_id"`
	Title     string            `gorm:"size:255;not null" json:"title"`
	Body      string            `gorm:"type:text" json:"body"`
	AuthorID  string            `gorm:"size:64;not null;index" json:"author_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Replies   []ForumReply      `gorm:"foreignKey:ThreadID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"replies,omitempty"`
}

// ForumReply is an answer within a forum thread.
type ForumReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThreadID  uint      `gorm:"not null;index" json:"thread_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  string    `gorm:"size:64;not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
