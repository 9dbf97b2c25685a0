package models

import "time"

// Notification is a persisted per-user message surfaced after store calls resolve.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"size:64;not null;index" json:"user_id"`
	Type      string     `gorm:"size:64;not null" json:"type"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
