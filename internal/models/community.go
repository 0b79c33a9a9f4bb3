package models

import "time"

// Community visibility levels
const (
	VisibilityOpen       = "open"
	VisibilityPrivate    = "private"
	VisibilityInviteOnly = "invite_only"
)

type Community struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Slug        string     `gorm:"size:100;unique;not null" json:"slug"`
	Description string     `json:"description"`
	Rules       string     `json:"rules,omitempty"`
	Visibility  string     `gorm:"size:20;not null;default:open" json:"visibility"`
	OwnerID     int        `gorm:"not null" json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"-"`
}

type CreateCommunityRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Rules       string `json:"rules"`
	Visibility  string `json:"visibility"`
}
