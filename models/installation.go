package models

import (
	"time"
)

type Installation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	TenantID        uint      `gorm:"not null;index" json:"tenant_id"`
	Name            string    `gorm:"not null;size:200" json:"name"`
	Address         string    `gorm:"size:300" json:"address"`
	OvertimeRateClp int64     `gorm:"default:0" json:"overtime_rate_clp"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	Posts           []Post    `gorm:"foreignKey:InstallationID" json:"posts,omitempty"`
}
