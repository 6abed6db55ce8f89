package database

import (
	"guardops/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(dsn string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	return Migrate(DB)
}

// Migrate applies the schema, including the partial unique indexes
// that back the one-active-assignment invariants. Shared with the
// test databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Installation{},
		&models.Post{},
		&models.Guard{},
		&models.Assignment{},
		&models.RotationSeries{},
		&models.ScheduleCell{},
		&models.AttendanceRecord{},
		&models.ExtraShift{},
		&models.AuditLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
