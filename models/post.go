package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a named shift definition at an installation. Its
// RequiredGuardCount defines the valid slot numbers 1..N; a slot is
// never stored, it is just the pair (post, slot number).
type Post struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	TenantID           uint           `gorm:"not null;index" json:"tenant_id"`
	InstallationID     uint           `gorm:"not null;index" json:"installation_id"`
	Installation       *Installation  `gorm:"foreignKey:InstallationID" json:"installation,omitempty"`
	Name               string         `gorm:"not null;size:200" json:"name"`
	StartTime          string         `gorm:"size:5" json:"start_time"` // "08:00"
	EndTime            string         `gorm:"size:5" json:"end_time"`   // "20:00"
	Weekdays           []int          `gorm:"serializer:json" json:"weekdays"`
	RequiredGuardCount int            `gorm:"not null;default:1" json:"required_guard_count"`
	OvertimeRateClp    int64          `gorm:"default:0" json:"overtime_rate_clp"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
}

// HasSlot reports whether n is a valid slot number for the post.
func (p *Post) HasSlot(n int) bool {
	return n >= 1 && n <= p.RequiredGuardCount
}
