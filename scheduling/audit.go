package scheduling

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"guardops/models"
)

// Entity types referenced by audit entries.
const (
	EntityAssignment = "assignment"
	EntitySeries     = "rotation_series"
	EntityCell       = "schedule_cell"
	EntityGuard      = "guard"
	EntityAttendance = "attendance_record"
	EntityExtraShift = "extra_shift"
)

// writeAudit appends one entry inside the caller's transaction so the
// trail commits or rolls back together with the mutation it documents.
func writeAudit(tx *gorm.DB, tenantID uint, opID, actor, action, entityType string, entityID uint, payload map[string]interface{}) error {
	body := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = string(b)
	}
	entry := models.AuditLog{
		TenantID:    tenantID,
		OperationID: opID,
		Actor:       actor,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Payload:     body,
	}
	return tx.Create(&entry).Error
}

// AuditTrail returns entries for one entity, newest first.
func (e *Engine) AuditTrail(ctx context.Context, tenantID uint, entityType string, entityID uint, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := e.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID > 0 {
		query = query.Where("entity_id = ?", entityID)
	}
	var entries []models.AuditLog
	if err := query.Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
