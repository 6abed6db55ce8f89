package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssignmentReasonTransferred = "transferred"
	AssignmentReasonDisplaced   = "displaced"
	AssignmentReasonUnassigned  = "unassigned"
)

// Assignment binds a guard to one numbered slot of a post. Closed
// assignments are kept forever; the partial unique indexes enforce at
// most one active row per slot and per guard.
type Assignment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	TenantID       uint           `gorm:"not null;index;index:idx_assignments_active_slot,unique,where:is_active;index:idx_assignments_active_guard,unique,where:is_active" json:"tenant_id"`
	GuardID        uint           `gorm:"not null;index;index:idx_assignments_active_guard,unique,where:is_active" json:"guard_id"`
	Guard          *Guard         `gorm:"foreignKey:GuardID" json:"guard,omitempty"`
	PostID         uint           `gorm:"not null;index;index:idx_assignments_active_slot,unique,where:is_active" json:"post_id"`
	Post           *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	SlotNumber     int            `gorm:"not null;index:idx_assignments_active_slot,unique,where:is_active" json:"slot_number"`
	InstallationID uint           `gorm:"not null;index" json:"installation_id"`
	StartDate      time.Time      `gorm:"not null;type:date" json:"start_date"`
	EndDate        *time.Time     `gorm:"type:date" json:"end_date"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	Reason         string         `gorm:"size:300" json:"reason"`
	CreatedBy      string         `gorm:"size:100" json:"created_by"`
}
