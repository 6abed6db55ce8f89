package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"guardops/models"
)

// GetMonth returns the installation's pauta for one month, with post
// and planned-guard summaries, ordered by date then post then slot.
func (e *Engine) GetMonth(ctx context.Context, tenantID, installationID uint, year, month int) ([]models.ScheduleCell, error) {
	if !validMonth(year, month) {
		return nil, fmt.Errorf("%w: invalid month %d-%d", ErrInvalidInput, year, month)
	}
	if _, err := firstScoped[models.Installation](e.db.WithContext(ctx), tenantID, installationID, "installation"); err != nil {
		return nil, err
	}
	start, end := monthRange(year, month)
	var cells []models.ScheduleCell
	err := e.db.WithContext(ctx).
		Preload("Post").Preload("PlannedGuard").
		Where("tenant_id = ? AND installation_id = ? AND date >= ? AND date < ?",
			tenantID, installationID, start, end).
		Order("date asc, post_id asc, slot_number asc").
		Find(&cells).Error
	if err != nil {
		return nil, err
	}
	return cells, nil
}

type UpsertCellInput struct {
	PostID         uint
	SlotNumber     int
	Date           time.Time
	ShiftCode      string // empty keeps the existing code ("T" for new cells)
	PlannedGuardID *uint
	ClearPlanned   bool
	Status         models.CellStatus
	Notes          *string
}

// UpsertCell is the manual single-cell override for ad hoc exceptions.
// It never derives shift codes; the rotation engine owns those rules.
func (e *Engine) UpsertCell(ctx context.Context, tenantID uint, actor string, in UpsertCellInput) (*models.ScheduleCell, error) {
	if in.PostID == 0 {
		return nil, fmt.Errorf("%w: post is required", ErrInvalidInput)
	}
	if in.SlotNumber < 1 {
		return nil, fmt.Errorf("%w: slot number must be positive", ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: missing date", ErrInvalidInput)
	}
	if in.ShiftCode != "" && in.ShiftCode != models.ShiftWork && in.ShiftCode != models.ShiftRest {
		return nil, fmt.Errorf("%w: unknown shift code %q", ErrInvalidInput, in.ShiftCode)
	}
	if in.Status != "" && in.Status != models.CellStatusPlanned && in.Status != models.CellStatusConfirmed {
		return nil, fmt.Errorf("%w: unknown cell status %q", ErrInvalidInput, in.Status)
	}
	day := dateOnly(in.Date)
	opID := uuid.NewString()

	var cell models.ScheduleCell
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		post, err := firstScoped[models.Post](tx, tenantID, in.PostID, "post")
		if err != nil {
			return err
		}
		if !post.HasSlot(in.SlotNumber) {
			return fmt.Errorf("%w: slot %d exceeds post capacity %d", ErrInvalidInput, in.SlotNumber, post.RequiredGuardCount)
		}
		if in.PlannedGuardID != nil {
			guard, err := firstScoped[models.Guard](tx, tenantID, *in.PlannedGuardID, "guard")
			if err != nil {
				return err
			}
			if !guard.IsAssignable() {
				return fmt.Errorf("%w: guard %d cannot be planned", ErrInvalidState, guard.ID)
			}
		}

		err = tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND date = ?",
			tenantID, in.PostID, in.SlotNumber, day).First(&cell).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cell = models.ScheduleCell{
				TenantID:       tenantID,
				InstallationID: post.InstallationID,
				PostID:         in.PostID,
				SlotNumber:     in.SlotNumber,
				Date:           day,
				ShiftCode:      models.ShiftWork,
				Status:         models.CellStatusPlanned,
			}
			if in.ShiftCode != "" {
				cell.ShiftCode = in.ShiftCode
			}
			if in.Status != "" {
				cell.Status = in.Status
			}
			if in.Notes != nil {
				cell.Notes = *in.Notes
			}
			cell.PlannedGuardID = in.PlannedGuardID
			if err := tx.Create(&cell).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{}
			if in.ShiftCode != "" {
				updates["shift_code"] = in.ShiftCode
			}
			if in.Status != "" {
				updates["status"] = in.Status
			}
			if in.Notes != nil {
				updates["notes"] = *in.Notes
			}
			if in.PlannedGuardID != nil {
				updates["planned_guard_id"] = *in.PlannedGuardID
			} else if in.ClearPlanned {
				updates["planned_guard_id"] = nil
			}
			if len(updates) > 0 {
				if err := tx.Model(&cell).Updates(updates).Error; err != nil {
					return err
				}
			}
		}
		return writeAudit(tx, tenantID, opID, actor, "cell.upsert", EntityCell, cell.ID, map[string]interface{}{
			"post_id":     in.PostID,
			"slot_number": in.SlotNumber,
			"date":        day.Format("2006-01-02"),
		})
	})
	if err != nil {
		return nil, err
	}
	return &cell, nil
}
