package models

import (
	"time"

	"gorm.io/gorm"
)

type GuardStatus string

const (
	GuardStatusCandidate  GuardStatus = "CANDIDATE"
	GuardStatusSelected   GuardStatus = "SELECTED"
	GuardStatusContracted GuardStatus = "CONTRACTED"
	GuardStatusTerminated GuardStatus = "TERMINATED"
)

type Guard struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
	TenantID              uint           `gorm:"not null;index" json:"tenant_id"`
	FullName              string         `gorm:"not null;size:200" json:"full_name"`
	Rut                   string         `gorm:"size:20;index" json:"rut"`
	Status                GuardStatus    `gorm:"not null;size:20;default:CANDIDATE" json:"status"`
	IsBlacklisted         bool           `gorm:"default:false" json:"is_blacklisted"`
	CurrentInstallationID *uint          `gorm:"index" json:"current_installation_id"`
	CurrentInstallation   *Installation  `gorm:"foreignKey:CurrentInstallationID" json:"current_installation,omitempty"`
}

// IsAssignable reports whether the guard may be bound to a slot.
// Only selected or contracted guards that are not blacklisted qualify.
func (g *Guard) IsAssignable() bool {
	if g.IsBlacklisted {
		return false
	}
	return g.Status == GuardStatusSelected || g.Status == GuardStatusContracted
}
