package models

import "time"

// Answer is a user's reply to a question. One active (non-deleted) answer
// per (question, user) — a partial unique index, created in the database
// package, lets a user answer again after soft-deleting.
type Answer struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	QuestionID int        `gorm:"not null;index" json:"question_id"`
	UserID     int        `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	Text       string     `gorm:"not null" json:"text"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Active reports whether the answer is visible (not soft-deleted).
func (a *Answer) Active() bool {
	return a.DeletedAt == nil
}

type CreateAnswerRequest struct {
	Text string `json:"text"`
}
