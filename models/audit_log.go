package models

import (
	"time"
)

// AuditLog is append-only. Every mutating operation writes its entries
// inside the same transaction as the mutation it documents; entries
// from one operation share an OperationID.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	TenantID    uint      `gorm:"not null;index" json:"tenant_id"`
	OperationID string    `gorm:"not null;size:36;index" json:"operation_id"`
	Actor       string    `gorm:"not null;size:100" json:"actor"`
	Action      string    `gorm:"not null;size:100;index" json:"action"`
	EntityType  string    `gorm:"not null;size:50;index:idx_audit_entity" json:"entity_type"`
	EntityID    uint      `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Payload     string    `gorm:"type:text" json:"payload"`
}
