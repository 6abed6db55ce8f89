package models

import (
	"time"

	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePending  AttendanceStatus = "pending"
	AttendancePresent  AttendanceStatus = "present"
	AttendanceAbsent   AttendanceStatus = "absent"
	AttendanceReplaced AttendanceStatus = "replaced"
	AttendanceLicense  AttendanceStatus = "license"
)

// ValidAttendanceStatus reports whether s is part of the vocabulary.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePending, AttendancePresent, AttendanceAbsent,
		AttendanceReplaced, AttendanceLicense:
		return true
	}
	return false
}

// AttendanceRecord tracks what actually happened on one painted work
// day. It is bound 1:1 to a schedule cell. TEGenerated mirrors whether
// an extra shift currently exists for the record.
type AttendanceRecord struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	DeletedAt          gorm.DeletedAt   `gorm:"index" json:"-"`
	TenantID           uint             `gorm:"not null;index" json:"tenant_id"`
	ScheduleCellID     uint             `gorm:"not null;uniqueIndex" json:"schedule_cell_id"`
	ScheduleCell       *ScheduleCell    `gorm:"foreignKey:ScheduleCellID" json:"schedule_cell,omitempty"`
	PostID             uint             `gorm:"not null;index" json:"post_id"`
	SlotNumber         int              `gorm:"not null" json:"slot_number"`
	Date               time.Time        `gorm:"not null;type:date;index" json:"date"`
	PlannedGuardID     *uint            `json:"planned_guard_id"`
	ActualGuardID      *uint            `json:"actual_guard_id"`
	ActualGuard        *Guard           `gorm:"foreignKey:ActualGuardID" json:"actual_guard,omitempty"`
	ReplacementGuardID *uint            `json:"replacement_guard_id"`
	ReplacementGuard   *Guard           `gorm:"foreignKey:ReplacementGuardID" json:"replacement_guard,omitempty"`
	Status             AttendanceStatus `gorm:"not null;size:20;default:pending" json:"status"`
	CheckInAt          *time.Time       `json:"check_in_at"`
	CheckOutAt         *time.Time       `json:"check_out_at"`
	Notes              string           `gorm:"size:500" json:"notes"`
	TEGenerated        bool             `gorm:"not null;default:false" json:"te_generated"`
}
