package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"guardops/metrics"
	"guardops/models"
)

// ApproveExtraShift moves a pending extra shift to approved. From this
// point on the paying guard is locked against schedule edits.
func (e *Engine) ApproveExtraShift(ctx context.Context, tenantID uint, actor string, shiftID uint) (*models.ExtraShift, error) {
	return e.transitionExtraShift(ctx, tenantID, actor, shiftID, "approve",
		func(tx *gorm.DB, shift *models.ExtraShift) (map[string]interface{}, error) {
			if shift.Status != models.ExtraShiftPending {
				return nil, fmt.Errorf("%w: extra shift %d is %s, only pending shifts can be approved", ErrInvalidState, shift.ID, shift.Status)
			}
			now := time.Now().UTC()
			return map[string]interface{}{
				"status":      models.ExtraShiftApproved,
				"approved_by": actor,
				"approved_at": now,
			}, nil
		})
}

// RejectExtraShift cancels a pending or approved extra shift. The
// bound attendance record's flag is reset so a corrected replacement
// can generate a fresh one.
func (e *Engine) RejectExtraShift(ctx context.Context, tenantID uint, actor string, shiftID uint) (*models.ExtraShift, error) {
	return e.transitionExtraShift(ctx, tenantID, actor, shiftID, "reject",
		func(tx *gorm.DB, shift *models.ExtraShift) (map[string]interface{}, error) {
			if shift.Status != models.ExtraShiftPending && shift.Status != models.ExtraShiftApproved {
				return nil, fmt.Errorf("%w: extra shift %d is %s and cannot be rejected", ErrInvalidState, shift.ID, shift.Status)
			}
			if shift.AttendanceRecordID != nil {
				if err := tx.Model(&models.AttendanceRecord{}).
					Where("tenant_id = ? AND id = ?", tenantID, *shift.AttendanceRecordID).
					Update("te_generated", false).Error; err != nil {
					return nil, err
				}
			}
			return map[string]interface{}{
				"status":               models.ExtraShiftRejected,
				"attendance_record_id": nil,
			}, nil
		})
}

// PayExtraShift marks an approved extra shift as paid.
func (e *Engine) PayExtraShift(ctx context.Context, tenantID uint, actor string, shiftID uint) (*models.ExtraShift, error) {
	return e.transitionExtraShift(ctx, tenantID, actor, shiftID, "pay",
		func(tx *gorm.DB, shift *models.ExtraShift) (map[string]interface{}, error) {
			if shift.Status != models.ExtraShiftApproved {
				return nil, fmt.Errorf("%w: extra shift %d is %s, only approved shifts can be paid", ErrInvalidState, shift.ID, shift.Status)
			}
			now := time.Now().UTC()
			return map[string]interface{}{
				"status":  models.ExtraShiftPaid,
				"paid_at": now,
			}, nil
		})
}

func (e *Engine) transitionExtraShift(ctx context.Context, tenantID uint, actor string, shiftID uint, decision string,
	prepare func(tx *gorm.DB, shift *models.ExtraShift) (map[string]interface{}, error)) (*models.ExtraShift, error) {
	if shiftID == 0 {
		return nil, fmt.Errorf("%w: extra shift id is required", ErrInvalidInput)
	}
	opID := uuid.NewString()

	var updated models.ExtraShift
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		shift, err := firstScoped[models.ExtraShift](tx, tenantID, shiftID, "extra shift")
		if err != nil {
			return err
		}
		updates, err := prepare(tx, shift)
		if err != nil {
			return err
		}
		if err := tx.Model(shift).Updates(updates).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, tenantID, opID, actor, "extra_shift."+decision, EntityExtraShift, shift.ID, map[string]interface{}{
			"guard_id":   shift.GuardID,
			"amount_clp": shift.AmountClp,
		}); err != nil {
			return err
		}
		updated = *shift
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncExtraShiftDecision(decision)
	e.log.Info().
		Uint("tenant_id", tenantID).
		Uint("extra_shift_id", shiftID).
		Str("decision", decision).
		Msg("extra shift transition")
	return &updated, nil
}

// ListExtraShifts returns the installation's extra shifts for one
// month with guard and post summaries. installationID zero means all
// installations of the tenant.
func (e *Engine) ListExtraShifts(ctx context.Context, tenantID, installationID uint, year, month int) ([]models.ExtraShift, error) {
	if !validMonth(year, month) {
		return nil, fmt.Errorf("%w: invalid month %d-%d", ErrInvalidInput, year, month)
	}
	start, end := monthRange(year, month)
	query := e.db.WithContext(ctx).
		Preload("Guard").Preload("Post").
		Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, start, end)
	if installationID > 0 {
		query = query.Where("installation_id = ?", installationID)
	}
	var shifts []models.ExtraShift
	if err := query.Order("date asc, post_id asc").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}
