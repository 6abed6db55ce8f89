package models

import (
	"time"

	"gorm.io/gorm"
)

type ExtraShiftStatus string

const (
	ExtraShiftPending  ExtraShiftStatus = "pending"
	ExtraShiftApproved ExtraShiftStatus = "approved"
	ExtraShiftRejected ExtraShiftStatus = "rejected"
	ExtraShiftPaid     ExtraShiftStatus = "paid"
)

// ExtraShift is the billable record created when a replacement guard
// covers another guard's planned work day (turno extra).
type ExtraShift struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"-"`
	TenantID           uint              `gorm:"not null;index" json:"tenant_id"`
	AttendanceRecordID *uint             `gorm:"uniqueIndex" json:"attendance_record_id"`
	AttendanceRecord   *AttendanceRecord `gorm:"foreignKey:AttendanceRecordID" json:"attendance_record,omitempty"`
	InstallationID     uint              `gorm:"not null;index" json:"installation_id"`
	PostID             uint              `gorm:"not null;index" json:"post_id"`
	Post               *Post             `gorm:"foreignKey:PostID" json:"post,omitempty"`
	GuardID            uint              `gorm:"not null;index" json:"guard_id"`
	Guard              *Guard            `gorm:"foreignKey:GuardID" json:"guard,omitempty"`
	Date               time.Time         `gorm:"not null;type:date;index" json:"date"`
	AmountClp          int64             `gorm:"not null;default:0" json:"amount_clp"`
	Status             ExtraShiftStatus  `gorm:"not null;size:20;default:pending" json:"status"`
	ApprovedBy         string            `gorm:"size:100" json:"approved_by"`
	ApprovedAt         *time.Time        `json:"approved_at"`
	PaidAt             *time.Time        `json:"paid_at"`
}

// GuardLocked reports whether the paying guard can no longer be
// swapped through schedule edits. Financial integrity wins once the
// shift is approved or paid.
func (e *ExtraShift) GuardLocked() bool {
	return e.Status == ExtraShiftApproved || e.Status == ExtraShiftPaid
}
