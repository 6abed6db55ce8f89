package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"guardops/metrics"
	"guardops/models"
)

type PaintSeriesInput struct {
	PostID        uint
	SlotNumber    int
	PatternCode   string
	PatternWork   int
	PatternOff    int
	StartDate     time.Time
	StartPosition int
	Year          int
	Month         int
}

// PaintSeries replaces the slot's active rotation series and
// materializes the pattern onto every day of the target month. The
// superseded series keeps its history with an end date stamped at the
// month's first day. Repainting identical inputs yields an identical
// cell set.
func (e *Engine) PaintSeries(ctx context.Context, tenantID uint, actor string, in PaintSeriesInput) (*models.RotationSeries, error) {
	if in.PostID == 0 {
		return nil, fmt.Errorf("%w: post is required", ErrInvalidInput)
	}
	if in.SlotNumber < 1 {
		return nil, fmt.Errorf("%w: slot number must be positive", ErrInvalidInput)
	}
	if !validMonth(in.Year, in.Month) {
		return nil, fmt.Errorf("%w: invalid target month %d-%d", ErrInvalidInput, in.Year, in.Month)
	}
	pattern := Pattern{
		Work:          in.PatternWork,
		Off:           in.PatternOff,
		StartDate:     dateOnly(in.StartDate),
		StartPosition: in.StartPosition,
	}
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	opID := uuid.NewString()

	var series models.RotationSeries
	var painted int
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		painted = 0
		post, err := firstScoped[models.Post](tx, tenantID, in.PostID, "post")
		if err != nil {
			return err
		}
		if !post.HasSlot(in.SlotNumber) {
			return fmt.Errorf("%w: slot %d exceeds post capacity %d", ErrInvalidInput, in.SlotNumber, post.RequiredGuardCount)
		}
		monthStart, monthEnd := monthRange(in.Year, in.Month)

		// Supersede the previous series for the slot.
		var prior models.RotationSeries
		err = tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND is_active",
			tenantID, in.PostID, in.SlotNumber).First(&prior).Error
		switch {
		case err == nil:
			if err := tx.Model(&prior).Updates(map[string]interface{}{
				"is_active": false,
				"end_date":  monthStart,
			}).Error; err != nil {
				return err
			}
			if err := writeAudit(tx, tenantID, opID, actor, "series.deactivate", EntitySeries, prior.ID, map[string]interface{}{
				"end_date": monthStart.Format("2006-01-02"),
			}); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// The slot may already have a guard; bind the series to them
		// and paint them onto covered work days.
		var assignment *models.Assignment
		var active models.Assignment
		err = tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND is_active",
			tenantID, in.PostID, in.SlotNumber).First(&active).Error
		switch {
		case err == nil:
			assignment = &active
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		series = models.RotationSeries{
			TenantID:      tenantID,
			PostID:        in.PostID,
			SlotNumber:    in.SlotNumber,
			PatternCode:   in.PatternCode,
			PatternWork:   in.PatternWork,
			PatternOff:    in.PatternOff,
			StartDate:     pattern.StartDate,
			StartPosition: in.StartPosition,
			IsActive:      true,
		}
		if assignment != nil {
			series.GuardID = &assignment.GuardID
		}
		if err := tx.Create(&series).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, tenantID, opID, actor, "series.create", EntitySeries, series.ID, map[string]interface{}{
			"post_id":      in.PostID,
			"slot_number":  in.SlotNumber,
			"pattern_code": in.PatternCode,
			"target_month": fmt.Sprintf("%04d-%02d", in.Year, in.Month),
		}); err != nil {
			return err
		}

		for day := monthStart; day.Before(monthEnd); day = day.AddDate(0, 0, 1) {
			code := pattern.ShiftCode(day)
			var planned *uint
			if assignment != nil && code == models.ShiftWork && !day.Before(dateOnly(assignment.StartDate)) {
				planned = &assignment.GuardID
			}
			if err := upsertPaintedCell(tx, tenantID, post, in.SlotNumber, day, code, planned); err != nil {
				return err
			}
			painted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.AddCellsPainted(painted)
	e.log.Info().
		Uint("tenant_id", tenantID).
		Uint("post_id", in.PostID).
		Int("slot", in.SlotNumber).
		Str("pattern", in.PatternCode).
		Int("cells", painted).
		Msg("rotation series painted")
	return &series, nil
}

// upsertPaintedCell writes one day of the pauta. Existing cells keep
// their status and notes; only the pattern-derived columns move.
func upsertPaintedCell(tx *gorm.DB, tenantID uint, post *models.Post, slot int, day time.Time, code string, planned *uint) error {
	var cell models.ScheduleCell
	err := tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND date = ?",
		tenantID, post.ID, slot, day).First(&cell).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		cell = models.ScheduleCell{
			TenantID:       tenantID,
			InstallationID: post.InstallationID,
			PostID:         post.ID,
			SlotNumber:     slot,
			Date:           day,
			ShiftCode:      code,
			PlannedGuardID: planned,
			Status:         models.CellStatusPlanned,
		}
		return tx.Create(&cell).Error
	case err != nil:
		return err
	}
	return tx.Model(&cell).Updates(map[string]interface{}{
		"shift_code":       code,
		"planned_guard_id": planned,
		"installation_id":  post.InstallationID,
	}).Error
}
