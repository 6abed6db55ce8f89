package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"guardops/metrics"
	"guardops/models"
)

// OptionalID distinguishes "field absent" from "field set to null" in
// attendance patches. Set is true whenever the field appeared in the
// request body.
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// DaySheet returns the attendance records for every painted work-day
// cell of the installation on one date, creating missing records as
// pending with the planned guard copied into the actual guard.
func (e *Engine) DaySheet(ctx context.Context, tenantID uint, actor string, installationID uint, date time.Time) ([]models.AttendanceRecord, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidInput)
	}
	if _, err := firstScoped[models.Installation](e.db.WithContext(ctx), tenantID, installationID, "installation"); err != nil {
		return nil, err
	}
	day := dateOnly(date)
	opID := uuid.NewString()

	err := e.inTx(ctx, func(tx *gorm.DB) error {
		var cells []models.ScheduleCell
		if err := tx.Where("tenant_id = ? AND installation_id = ? AND date = ? AND shift_code = ?",
			tenantID, installationID, day, models.ShiftWork).Find(&cells).Error; err != nil {
			return err
		}
		for _, cell := range cells {
			var existing models.AttendanceRecord
			err := tx.Where("tenant_id = ? AND schedule_cell_id = ?", tenantID, cell.ID).
				First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record := models.AttendanceRecord{
				TenantID:       tenantID,
				ScheduleCellID: cell.ID,
				PostID:         cell.PostID,
				SlotNumber:     cell.SlotNumber,
				Date:           day,
				PlannedGuardID: cell.PlannedGuardID,
				ActualGuardID:  cell.PlannedGuardID,
				Status:         models.AttendancePending,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			if err := writeAudit(tx, tenantID, opID, actor, "attendance.create", EntityAttendance, record.ID, map[string]interface{}{
				"schedule_cell_id": cell.ID,
				"date":             day.Format("2006-01-02"),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var records []models.AttendanceRecord
	err = e.db.WithContext(ctx).
		Preload("ActualGuard").Preload("ReplacementGuard").Preload("ScheduleCell").
		Joins("JOIN schedule_cells ON schedule_cells.id = attendance_records.schedule_cell_id").
		Where("attendance_records.tenant_id = ? AND schedule_cells.installation_id = ? AND attendance_records.date = ?",
			tenantID, installationID, day).
		Order("attendance_records.post_id asc, attendance_records.slot_number asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

type AttendancePatch struct {
	Status             *models.AttendanceStatus `json:"status"`
	ActualGuardID      OptionalID               `json:"actual_guard_id"`
	ReplacementGuardID OptionalID               `json:"replacement_guard_id"`
	CheckInAt          *time.Time               `json:"check_in_at"`
	CheckOutAt         *time.Time               `json:"check_out_at"`
	Notes              *string                  `json:"notes"`
}

// UpdateAttendance applies a patch to one attendance record and keeps
// the derived extra shift in step. Setting a replacement forces the
// status to "replaced" unless the patch names a status explicitly.
// Once the derived extra shift is approved or paid its guard is
// locked: swapping or clearing the replacement is rejected, while pure
// status edits leave the financial record untouched.
func (e *Engine) UpdateAttendance(ctx context.Context, tenantID uint, actor string, recordID uint, patch AttendancePatch) (*models.AttendanceRecord, error) {
	if recordID == 0 {
		return nil, fmt.Errorf("%w: attendance record id is required", ErrInvalidInput)
	}
	if patch.Status != nil && !models.ValidAttendanceStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, *patch.Status)
	}
	opID := uuid.NewString()

	var updated models.AttendanceRecord
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		record, err := firstScoped[models.AttendanceRecord](tx, tenantID, recordID, "attendance record")
		if err != nil {
			return err
		}

		for _, ref := range []OptionalID{patch.ActualGuardID, patch.ReplacementGuardID} {
			if !ref.Set || ref.Value == nil {
				continue
			}
			guard, err := firstScoped[models.Guard](tx, tenantID, *ref.Value, "guard")
			if err != nil {
				return err
			}
			if !guard.IsAssignable() {
				return fmt.Errorf("%w: guard %d is blacklisted or inactive", ErrInvalidState, guard.ID)
			}
		}

		newReplacement := record.ReplacementGuardID
		if patch.ReplacementGuardID.Set {
			newReplacement = patch.ReplacementGuardID.Value
		}
		newStatus := record.Status
		switch {
		case patch.Status != nil:
			newStatus = *patch.Status
		case patch.ReplacementGuardID.Set && newReplacement != nil:
			newStatus = models.AttendanceReplaced
		case patch.ReplacementGuardID.Set && newReplacement == nil && record.Status == models.AttendanceReplaced:
			newStatus = models.AttendancePending
		}

		var shift models.ExtraShift
		hasShift := true
		err = tx.Where("tenant_id = ? AND attendance_record_id = ?", tenantID, record.ID).
			First(&shift).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hasShift = false
		case err != nil:
			return err
		}

		if hasShift && shift.GuardLocked() && patch.ReplacementGuardID.Set {
			if newReplacement == nil || *newReplacement != shift.GuardID {
				return fmt.Errorf("%w: extra shift %d is %s, reject it before changing the replacement guard",
					ErrInvalidState, shift.ID, shift.Status)
			}
		}

		updates := map[string]interface{}{"status": newStatus}
		if patch.ActualGuardID.Set {
			updates["actual_guard_id"] = patch.ActualGuardID.Value
		}
		if patch.ReplacementGuardID.Set {
			updates["replacement_guard_id"] = patch.ReplacementGuardID.Value
		}
		if patch.CheckInAt != nil {
			updates["check_in_at"] = *patch.CheckInAt
		}
		if patch.CheckOutAt != nil {
			updates["check_out_at"] = *patch.CheckOutAt
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}

		switch {
		case newStatus == models.AttendanceReplaced && newReplacement != nil:
			amount, installationID, err := overtimeAmount(tx, tenantID, record.PostID)
			if err != nil {
				return err
			}
			if !hasShift {
				boundID := record.ID
				shift = models.ExtraShift{
					TenantID:           tenantID,
					AttendanceRecordID: &boundID,
					InstallationID:     installationID,
					PostID:             record.PostID,
					GuardID:            *newReplacement,
					Date:               record.Date,
					AmountClp:          amount,
					Status:             models.ExtraShiftPending,
				}
				if err := tx.Create(&shift).Error; err != nil {
					return err
				}
				metrics.IncExtraShiftGenerated()
				if err := writeAudit(tx, tenantID, opID, actor, "extra_shift.generate", EntityExtraShift, shift.ID, map[string]interface{}{
					"guard_id":   *newReplacement,
					"amount_clp": amount,
					"date":       record.Date.Format("2006-01-02"),
				}); err != nil {
					return err
				}
			} else if shift.Status == models.ExtraShiftPending {
				if err := tx.Model(&shift).Updates(map[string]interface{}{
					"guard_id":   *newReplacement,
					"date":       record.Date,
					"amount_clp": amount,
				}).Error; err != nil {
					return err
				}
				if err := writeAudit(tx, tenantID, opID, actor, "extra_shift.update", EntityExtraShift, shift.ID, map[string]interface{}{
					"guard_id":   *newReplacement,
					"amount_clp": amount,
				}); err != nil {
					return err
				}
			}
			updates["te_generated"] = true

		case hasShift && shift.Status == models.ExtraShiftPending:
			// Transition away from "replaced" (or replacement cleared)
			// while still pending: the billable record is retracted.
			// Hard delete so the unique index frees the attendance
			// record for regeneration.
			if err := tx.Unscoped().Delete(&shift).Error; err != nil {
				return err
			}
			metrics.IncExtraShiftRetracted()
			if err := writeAudit(tx, tenantID, opID, actor, "extra_shift.retract", EntityExtraShift, shift.ID, nil); err != nil {
				return err
			}
			updates["te_generated"] = false
		}

		if err := tx.Model(record).Updates(updates).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, tenantID, opID, actor, "attendance.update", EntityAttendance, record.ID, map[string]interface{}{
			"status": string(newStatus),
		}); err != nil {
			return err
		}
		updated = *record
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Uint("tenant_id", tenantID).
		Uint("attendance_id", recordID).
		Str("status", string(updated.Status)).
		Msg("attendance updated")
	return &updated, nil
}

// overtimeAmount resolves the rate for an extra shift: the post's
// rate, falling back to the installation's, else zero.
func overtimeAmount(tx *gorm.DB, tenantID, postID uint) (int64, uint, error) {
	post, err := firstScoped[models.Post](tx, tenantID, postID, "post")
	if err != nil {
		return 0, 0, err
	}
	if post.OvertimeRateClp > 0 {
		return post.OvertimeRateClp, post.InstallationID, nil
	}
	installation, err := firstScoped[models.Installation](tx, tenantID, post.InstallationID, "installation")
	if err != nil {
		return 0, 0, err
	}
	return installation.OvertimeRateClp, post.InstallationID, nil
}
