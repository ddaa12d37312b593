package sqlite

import (
	"bizbook/cmd/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"time"
)

func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Appointment{},
		&entity.AppointmentInvitation{},
		&entity.RecurringSettings{},
		&entity.StaffMember{},
		&entity.ChatHistory{},
	)
	if err != nil {
		return nil, err
	}

	// SQLite only tolerates a single writer; ":memory:" also needs a single
	// connection so every query sees the same database.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
