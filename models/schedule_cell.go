package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ShiftWork = "T"
	ShiftRest = "-"
)

type CellStatus string

const (
	CellStatusPlanned   CellStatus = "planned"
	CellStatusConfirmed CellStatus = "confirmed"
)

// ScheduleCell is one day of the monthly pauta for one slot. The shift
// code encodes the rotation pattern independently of who is planned:
// clearing PlannedGuardID never touches ShiftCode.
type ScheduleCell struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	TenantID       uint           `gorm:"not null;index;uniqueIndex:idx_cells_slot_date" json:"tenant_id"`
	InstallationID uint           `gorm:"not null;index" json:"installation_id"`
	PostID         uint           `gorm:"not null;uniqueIndex:idx_cells_slot_date" json:"post_id"`
	Post           *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	SlotNumber     int            `gorm:"not null;uniqueIndex:idx_cells_slot_date" json:"slot_number"`
	Date           time.Time      `gorm:"not null;type:date;uniqueIndex:idx_cells_slot_date" json:"date"`
	ShiftCode      string         `gorm:"not null;size:2" json:"shift_code"`
	PlannedGuardID *uint          `gorm:"index" json:"planned_guard_id"`
	PlannedGuard   *Guard         `gorm:"foreignKey:PlannedGuardID" json:"planned_guard,omitempty"`
	Status         CellStatus     `gorm:"not null;size:20;default:planned" json:"status"`
	Notes          string         `gorm:"size:500" json:"notes"`
}

func (c *ScheduleCell) IsWorkDay() bool {
	return c.ShiftCode == ShiftWork
}
