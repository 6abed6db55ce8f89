package models

import (
	"time"

	"gorm.io/gorm"
)

// RotationSeries is a repeating work/rest pattern anchored at a date
// and applied to one slot. The guard binding is optional: a series can
// be painted onto the monthly schedule before any guard is assigned.
type RotationSeries struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	TenantID      uint           `gorm:"not null;index;index:idx_series_active_slot,unique,where:is_active" json:"tenant_id"`
	PostID        uint           `gorm:"not null;index;index:idx_series_active_slot,unique,where:is_active" json:"post_id"`
	Post          *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	SlotNumber    int            `gorm:"not null;index:idx_series_active_slot,unique,where:is_active" json:"slot_number"`
	GuardID       *uint          `gorm:"index" json:"guard_id"`
	Guard         *Guard         `gorm:"foreignKey:GuardID" json:"guard,omitempty"`
	PatternCode   string         `gorm:"size:20" json:"pattern_code"` // e.g. "4x4"
	PatternWork   int            `gorm:"not null" json:"pattern_work"`
	PatternOff    int            `gorm:"not null" json:"pattern_off"`
	StartDate     time.Time      `gorm:"not null;type:date" json:"start_date"`
	StartPosition int            `gorm:"not null;default:1" json:"start_position"`
	EndDate       *time.Time     `gorm:"type:date" json:"end_date"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
}

// CycleLength is the full length of the work/rest cycle in days.
func (s *RotationSeries) CycleLength() int {
	return s.PatternWork + s.PatternOff
}
