package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardops/models"
)

func paintInput(postID uint, slot int) PaintSeriesInput {
	return PaintSeriesInput{
		PostID:        postID,
		SlotNumber:    slot,
		PatternCode:   "4x4",
		PatternWork:   4,
		PatternOff:    4,
		StartDate:     day(2024, time.January, 1),
		StartPosition: 1,
		Year:          2024,
		Month:         1,
	}
}

func TestPaintSeriesMaterializesMonth(t *testing.T) {
	engine, db := newTestEngine(t)
	installation := seedInstallation(t, db, 30000)
	post := seedPost(t, db, installation, "Porteria", 2, 0)

	series, err := engine.PaintSeries(context.Background(), testTenant, "tester", paintInput(post.ID, 1))
	require.NoError(t, err)
	require.True(t, series.IsActive)
	assert.Nil(t, series.GuardID)

	cells := slotCells(t, db, post.ID, 1)
	require.Len(t, cells, 31)
	for i, cell := range cells {
		want := models.ShiftRest
		if i%8 < 4 {
			want = models.ShiftWork
		}
		assert.Equal(t, want, cell.ShiftCode, "day %d", i+1)
		assert.Nil(t, cell.PlannedGuardID)
		assert.Equal(t, installation.ID, cell.InstallationID)
		assert.Equal(t, models.CellStatusPlanned, cell.Status)
	}
}

func TestPaintSeriesIdempotent(t *testing.T) {
	engine, db := newTestEngine(t)
	installation := seedInstallation(t, db, 30000)
	post := seedPost(t, db, installation, "Porteria", 1, 0)

	_, err := engine.PaintSeries(context.Background(), testTenant, "tester", paintInput(post.ID, 1))
	require.NoError(t, err)
	first := slotCells(t, db, post.ID, 1)

	_, err = engine.PaintSeries(context.Background(), testTenant, "tester", paintInput(post.ID, 1))
	require.NoError(t, err)
	second := slotCells(t, db, post.ID, 1)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].ShiftCode, second[i].ShiftCode)
		assert.Equal(t, first[i].PlannedGuardID, second[i].PlannedGuardID)
	}
}

func TestPaintSeriesSupersedesPrior(t *testing.T) {
	engine, db := newTestEngine(t)
	installation := seedInstallation(t, db, 30000)
	post := seedPost(t, db, installation, "Porteria", 1, 0)

	first, err := engine.PaintSeries(context.Background(), testTenant, "tester", paintInput(post.ID, 1))
	require.NoError(t, err)

	in := paintInput(post.ID, 1)
	in.PatternCode = "5x2"
	in.PatternWork = 5
	in.PatternOff = 2
	second, err := engine.PaintSeries(context.Background(), testTenant, "tester", in)
	require.NoError(t, err)

	var prior models.RotationSeries
	require.NoError(t, db.First(&prior, first.ID).Error)
	assert.False(t, prior.IsActive)
	require.NotNil(t, prior.EndDate)
	assert.True(t, prior.EndDate.Equal(day(2024, time.January, 1)), "superseded series ends at the target month")

	var activeCount int64
	db.Model(&models.RotationSeries{}).
		Where("tenant_id = ? AND post_id = ? AND slot_number = ? AND is_active", testTenant, post.ID, 1).
		Count(&activeCount)
	assert.EqualValues(t, 1, activeCount)

	cells := slotCells(t, db, post.ID, 1)
	assert.Equal(t, models.ShiftWork, cells[4].ShiftCode, "5x2 works day five")
	_ = second
}

func TestPaintSeriesBindsExistingAssignment(t *testing.T) {
	engine, db := newTestEngine(t)
	installation := seedInstallation(t, db, 30000)
	post := seedPost(t, db, installation, "Porteria", 1, 0)
	guard := seedGuard(t, db, "Ana Rojas")

	_, err := engine.Assign(context.Background(), testTenant, "tester", AssignInput{
		GuardID:    guard.ID,
		PostID:     post.ID,
		SlotNumber: 1,
		StartDate:  day(2024, time.January, 10),
	})
	require.NoError(t, err)

	series, err := engine.PaintSeries(context.Background(), testTenant, "tester", paintInput(post.ID, 1))
	require.NoError(t, err)
	require.NotNil(t, series.GuardID)
	assert.Equal(t, guard.ID, *series.GuardID)

	for _, cell := range slotCells(t, db, post.ID, 1) {
		switch {
		case cell.ShiftCode != models.ShiftWork:
			assert.Nil(t, cell.PlannedGuardID)
		case cell.Date.Before(day(2024, time.January, 10)):
			assert.Nil(t, cell.PlannedGuardID, "work day before assignment start stays unplanned")
		default:
			require.NotNil(t, cell.PlannedGuardID)
			assert.Equal(t, guard.ID, *cell.PlannedGuardID)
		}
	}
}

func TestPaintSeriesValidation(t *testing.T) {
	engine, db := newTestEngine(t)
	installation := seedInstallation(t, db, 30000)
	post := seedPost(t, db, installation, "Porteria", 1, 0)
	ctx := context.Background()

	in := paintInput(post.ID, 1)
	in.Month = 13
	_, err := engine.PaintSeries(ctx, testTenant, "tester", in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = paintInput(post.ID, 1)
	in.PatternWork = 0
	_, err = engine.PaintSeries(ctx, testTenant, "tester", in)
	require.ErrorIs(t, err, ErrInvalidInput)

	in = paintInput(post.ID, 2)
	_, err = engine.PaintSeries(ctx, testTenant, "tester", in)
	require.ErrorIs(t, err, ErrInvalidInput, "slot beyond post capacity")

	in = paintInput(post.ID+99, 1)
	_, err = engine.PaintSeries(ctx, testTenant, "tester", in)
	require.ErrorIs(t, err, ErrNotFound)
}
