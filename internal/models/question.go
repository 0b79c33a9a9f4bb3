package models

import "time"

// Question scopes
const (
	ScopeGlobal    = "global"
	ScopeCommunity = "community"
)

// Question is the single daily prompt for a scope. At most one row may
// exist per (scope, community, effective_date) — enforced by a unique
// index created in the database package, since the global rows carry a
// NULL community_id.
type Question struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Scope         string    `gorm:"size:20;not null;index" json:"scope"`
	CommunityID   *int      `gorm:"index" json:"community_id,omitempty"` // nil iff scope is global
	EffectiveDate string    `gorm:"size:10;not null;index" json:"effective_date"`
	Text          string    `gorm:"not null" json:"text"`
	CreatedBy     *int      `json:"created_by,omitempty"` // nil for system-generated questions
	CreatedAt     time.Time `json:"created_at"`
}

type CreateQuestionRequest struct {
	Scope         string `json:"scope"`
	CommunityID   *int   `json:"community_id"`
	EffectiveDate string `json:"effective_date"` // defaults to today (UTC)
	Text          string `json:"text"`
}
