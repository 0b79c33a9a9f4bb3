package models

import "time"

// Membership roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Membership links a user to a community
type Membership struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	CommunityID int       `gorm:"not null;uniqueIndex:idx_memberships_community_user" json:"community_id"`
	UserID      int       `gorm:"not null;uniqueIndex:idx_memberships_community_user" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Role        string    `gorm:"size:20;not null;default:member" json:"role"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
