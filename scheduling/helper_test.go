package scheduling

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guardops/database"
	"guardops/models"
)

const testTenant uint = 1

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, zerolog.Nop()), db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedInstallation(t *testing.T, db *gorm.DB, rate int64) *models.Installation {
	t.Helper()
	installation := &models.Installation{
		TenantID:        testTenant,
		Name:            "Planta Norte",
		OvertimeRateClp: rate,
		IsActive:        true,
	}
	require.NoError(t, db.Create(installation).Error)
	return installation
}

func seedPost(t *testing.T, db *gorm.DB, installation *models.Installation, name string, capacity int, rate int64) *models.Post {
	t.Helper()
	post := &models.Post{
		TenantID:           testTenant,
		InstallationID:     installation.ID,
		Name:               name,
		StartTime:          "08:00",
		EndTime:            "20:00",
		Weekdays:           []int{1, 2, 3, 4, 5, 6, 7},
		RequiredGuardCount: capacity,
		OvertimeRateClp:    rate,
		IsActive:           true,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedGuard(t *testing.T, db *gorm.DB, name string) *models.Guard {
	t.Helper()
	guard := &models.Guard{
		TenantID: testTenant,
		FullName: name,
		Status:   models.GuardStatusContracted,
	}
	require.NoError(t, db.Create(guard).Error)
	return guard
}

func slotCells(t *testing.T, db *gorm.DB, postID uint, slot int) []models.ScheduleCell {
	t.Helper()
	var cells []models.ScheduleCell
	require.NoError(t, db.
		Where("tenant_id = ? AND post_id = ? AND slot_number = ?", testTenant, postID, slot).
		Order("date asc").Find(&cells).Error)
	return cells
}
