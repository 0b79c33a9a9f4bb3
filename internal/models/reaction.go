package models

import "time"

// ReactionLike is currently the only reaction type.
const ReactionLike = "like"

// Reaction tracks individual user likes on answers
type Reaction struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	AnswerID  int       `gorm:"not null;uniqueIndex:idx_reactions_answer_user_type" json:"answer_id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_reactions_answer_user_type" json:"user_id"`
	Type      string    `gorm:"size:20;not null;uniqueIndex:idx_reactions_answer_user_type" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
