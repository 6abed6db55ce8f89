package scheduling

import (
	"fmt"
	"math"
	"time"

	"guardops/models"
)

// Pattern is a repeating work/rest cycle anchored at a date. It is
// conceptually infinite in both directions: dates before the anchor
// resolve to the same cycle walked backwards.
type Pattern struct {
	Work          int
	Off           int
	StartDate     time.Time
	StartPosition int // 1-based offset into the cycle at StartDate
}

func (p Pattern) CycleLength() int {
	return p.Work + p.Off
}

// Validate rejects degenerate patterns before anything is painted.
func (p Pattern) Validate() error {
	if p.Work < 1 {
		return fmt.Errorf("%w: pattern must have at least one work day", ErrInvalidInput)
	}
	if p.Off < 0 {
		return fmt.Errorf("%w: rest days cannot be negative", ErrInvalidInput)
	}
	if p.StartPosition < 1 || p.StartPosition > p.CycleLength() {
		return fmt.Errorf("%w: start position %d outside cycle of %d days", ErrInvalidInput, p.StartPosition, p.CycleLength())
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("%w: missing pattern start date", ErrInvalidInput)
	}
	return nil
}

// IsWorkDay resolves one calendar date against the cycle.
func (p Pattern) IsWorkDay(d time.Time) bool {
	cycle := p.CycleLength()
	if cycle <= 0 {
		return false
	}
	daysDiff := daysBetween(p.StartDate, d)
	// normalized modulo so dates before the anchor land in 0..cycle-1
	pos := ((daysDiff+p.StartPosition-1)%cycle + cycle) % cycle
	return pos < p.Work
}

func (p Pattern) ShiftCode(d time.Time) string {
	if p.IsWorkDay(d) {
		return models.ShiftWork
	}
	return models.ShiftRest
}

// dateOnly truncates to midnight UTC so date arithmetic is exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(dateOnly(to).Sub(dateOnly(from)).Hours() / 24))
}

// monthRange returns the half-open [first day, first day of next month).
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func validMonth(year, month int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}
