package models

import "time"

// Report target types
const (
	ReportTargetAnswer    = "answer"
	ReportTargetUser      = "user"
	ReportTargetCommunity = "community"
)

// Report statuses. Intake only ever writes pending; the transitions to
// resolved/dismissed happen through manual review.
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	ReporterID int       `gorm:"not null;index" json:"reporter_id"`
	TargetType string    `gorm:"size:20;not null" json:"target_type"`
	TargetID   int       `gorm:"not null" json:"target_id"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidReportTarget reports whether t names a reportable entity.
func ValidReportTarget(t string) bool {
	switch t {
	case ReportTargetAnswer, ReportTargetUser, ReportTargetCommunity:
		return true
	}
	return false
}

type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   int    `json:"target_id"`
	Reason     string `json:"reason"`
}
