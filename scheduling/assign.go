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

type AssignInput struct {
	GuardID    uint
	PostID     uint
	SlotNumber int
	StartDate  time.Time
	Reason     string
}

// Assign binds a guard to a slot from a start date. In one
// transaction it closes the guard's previous assignment (transfer),
// displaces the slot's current occupant, creates the new assignment,
// repaints planned guards on future work cells, points the slot's
// active rotation series at the guard and syncs the guard's
// denormalized current installation.
func (e *Engine) Assign(ctx context.Context, tenantID uint, actor string, in AssignInput) (*models.Assignment, error) {
	if in.GuardID == 0 || in.PostID == 0 {
		return nil, fmt.Errorf("%w: guard and post are required", ErrInvalidInput)
	}
	if in.SlotNumber < 1 {
		return nil, fmt.Errorf("%w: slot number must be positive", ErrInvalidInput)
	}
	if in.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: missing start date", ErrInvalidInput)
	}
	start := dateOnly(in.StartDate)
	opID := uuid.NewString()

	var created models.Assignment
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		guard, err := firstScoped[models.Guard](tx, tenantID, in.GuardID, "guard")
		if err != nil {
			return err
		}
		if guard.IsBlacklisted {
			return fmt.Errorf("%w: guard %d is blacklisted", ErrInvalidState, guard.ID)
		}
		if !guard.IsAssignable() {
			return fmt.Errorf("%w: guard %d has lifecycle status %s", ErrInvalidState, guard.ID, guard.Status)
		}
		post, err := firstScoped[models.Post](tx, tenantID, in.PostID, "post")
		if err != nil {
			return err
		}
		if !post.HasSlot(in.SlotNumber) {
			return fmt.Errorf("%w: slot %d exceeds post capacity %d", ErrInvalidInput, in.SlotNumber, post.RequiredGuardCount)
		}

		// Transfer: close the guard's current assignment elsewhere.
		var current models.Assignment
		err = tx.Where("tenant_id = ? AND guard_id = ? AND is_active", tenantID, in.GuardID).
			First(&current).Error
		switch {
		case err == nil:
			if current.PostID == in.PostID && current.SlotNumber == in.SlotNumber {
				return fmt.Errorf("%w: guard %d already holds post %d slot %d", ErrInvalidState, in.GuardID, in.PostID, in.SlotNumber)
			}
			if err := e.closeAssignment(tx, &current, start, models.AssignmentReasonTransferred, actor, opID); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// Displacement: close whoever holds the target slot today.
		var occupant models.Assignment
		err = tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND is_active",
			tenantID, in.PostID, in.SlotNumber).First(&occupant).Error
		switch {
		case err == nil:
			if err := e.closeAssignment(tx, &occupant, start, models.AssignmentReasonDisplaced, actor, opID); err != nil {
				return err
			}
			if err := syncGuardInstallation(tx, tenantID, occupant.GuardID); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		created = models.Assignment{
			TenantID:       tenantID,
			GuardID:        in.GuardID,
			PostID:         in.PostID,
			SlotNumber:     in.SlotNumber,
			InstallationID: post.InstallationID,
			StartDate:      start,
			IsActive:       true,
			Reason:         in.Reason,
			CreatedBy:      actor,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		if err := writeAudit(tx, tenantID, opID, actor, "assignment.create", EntityAssignment, created.ID, map[string]interface{}{
			"guard_id":    in.GuardID,
			"post_id":     in.PostID,
			"slot_number": in.SlotNumber,
			"start_date":  start.Format("2006-01-02"),
		}); err != nil {
			return err
		}

		// Paint the guard onto future work-day cells; the shift code
		// stays whatever the rotation pattern said.
		repaint := tx.Model(&models.ScheduleCell{}).
			Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND shift_code = ? AND date >= ?",
				tenantID, in.PostID, in.SlotNumber, models.ShiftWork, start).
			Update("planned_guard_id", in.GuardID)
		if repaint.Error != nil {
			return repaint.Error
		}
		if err := writeAudit(tx, tenantID, opID, actor, "cell.repaint", EntityCell, 0, map[string]interface{}{
			"guard_id":    in.GuardID,
			"post_id":     in.PostID,
			"slot_number": in.SlotNumber,
			"from":        start.Format("2006-01-02"),
			"cells":       repaint.RowsAffected,
		}); err != nil {
			return err
		}

		// A series may have been painted for the slot before any guard
		// existed; bind it now.
		var activeSeries models.RotationSeries
		err = tx.Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND is_active",
			tenantID, in.PostID, in.SlotNumber).First(&activeSeries).Error
		switch {
		case err == nil:
			if err := tx.Model(&activeSeries).Update("guard_id", in.GuardID).Error; err != nil {
				return err
			}
			if err := writeAudit(tx, tenantID, opID, actor, "series.rebind", EntitySeries, activeSeries.ID, map[string]interface{}{
				"guard_id": in.GuardID,
			}); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Model(&models.Guard{}).Where("id = ?", guard.ID).
			Update("current_installation_id", post.InstallationID).Error; err != nil {
			return err
		}
		return writeAudit(tx, tenantID, opID, actor, "guard.sync_installation", EntityGuard, guard.ID, map[string]interface{}{
			"installation_id": post.InstallationID,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.IncAssignmentCreated()
	e.log.Info().
		Uint("tenant_id", tenantID).
		Uint("guard_id", in.GuardID).
		Uint("post_id", in.PostID).
		Int("slot", in.SlotNumber).
		Msg("guard assigned")
	return &created, nil
}

// Unassign closes an active assignment at endDate. The rotation
// pattern on the slot's cells is retained; only the planned guard is
// cleared from endDate onwards.
func (e *Engine) Unassign(ctx context.Context, tenantID uint, actor string, assignmentID uint, endDate time.Time, reason string) (*models.Assignment, error) {
	if assignmentID == 0 {
		return nil, fmt.Errorf("%w: assignment id is required", ErrInvalidInput)
	}
	if endDate.IsZero() {
		return nil, fmt.Errorf("%w: missing end date", ErrInvalidInput)
	}
	end := dateOnly(endDate)
	if reason == "" {
		reason = models.AssignmentReasonUnassigned
	}
	opID := uuid.NewString()

	var closed models.Assignment
	err := e.inTx(ctx, func(tx *gorm.DB) error {
		assignment, err := firstScoped[models.Assignment](tx, tenantID, assignmentID, "assignment")
		if err != nil {
			return err
		}
		if !assignment.IsActive {
			return fmt.Errorf("%w: assignment %d is already closed", ErrInvalidState, assignmentID)
		}
		if end.Before(dateOnly(assignment.StartDate)) {
			return fmt.Errorf("%w: end date precedes assignment start", ErrInvalidInput)
		}
		if err := e.closeAssignment(tx, assignment, end, reason, actor, opID); err != nil {
			return err
		}
		if err := syncGuardInstallation(tx, tenantID, assignment.GuardID); err != nil {
			return err
		}
		closed = *assignment
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncAssignmentClosed(reason)
	e.log.Info().
		Uint("tenant_id", tenantID).
		Uint("assignment_id", assignmentID).
		Str("reason", reason).
		Msg("assignment closed")
	return &closed, nil
}

// CheckExisting returns the guard's current active assignment with
// post and installation summaries, or nil when the guard holds none.
// Read-only; used by callers to warn before a transfer.
func (e *Engine) CheckExisting(ctx context.Context, tenantID uint, guardID uint) (*models.Assignment, error) {
	if _, err := firstScoped[models.Guard](e.db.WithContext(ctx), tenantID, guardID, "guard"); err != nil {
		return nil, err
	}
	var assignment models.Assignment
	err := e.db.WithContext(ctx).
		Preload("Post").Preload("Post.Installation").
		Where("tenant_id = ? AND guard_id = ? AND is_active", tenantID, guardID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// closeAssignment stamps the end date, deactivates the row and clears
// the planned guard from the slot's cells at endDate and later. The
// shift code column is never touched here.
func (e *Engine) closeAssignment(tx *gorm.DB, a *models.Assignment, endDate time.Time, reason, actor, opID string) error {
	if err := tx.Model(a).Updates(map[string]interface{}{
		"is_active": false,
		"end_date":  endDate,
		"reason":    reason,
	}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.ScheduleCell{}).
		Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND date >= ?",
			a.TenantID, a.PostID, a.SlotNumber, endDate).
		Update("planned_guard_id", nil).Error; err != nil {
		return err
	}
	return writeAudit(tx, a.TenantID, opID, actor, "assignment.close", EntityAssignment, a.ID, map[string]interface{}{
		"guard_id":    a.GuardID,
		"post_id":     a.PostID,
		"slot_number": a.SlotNumber,
		"end_date":    endDate.Format("2006-01-02"),
		"reason":      reason,
	})
}

// syncGuardInstallation recomputes the guard's denormalized current
// installation from whatever active assignment remains. It is a
// derived projection, never a source of truth.
func syncGuardInstallation(tx *gorm.DB, tenantID, guardID uint) error {
	var remaining models.Assignment
	err := tx.Where("tenant_id = ? AND guard_id = ? AND is_active", tenantID, guardID).
		First(&remaining).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Model(&models.Guard{}).Where("tenant_id = ? AND id = ?", tenantID, guardID).
			Update("current_installation_id", nil).Error
	case err != nil:
		return err
	}
	return tx.Model(&models.Guard{}).Where("tenant_id = ? AND id = ?", tenantID, guardID).
		Update("current_installation_id", remaining.InstallationID).Error
}
