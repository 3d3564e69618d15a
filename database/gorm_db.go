package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/gallerybackend/models"
)

// NowUTC is used as the GORM clock so every stored timestamp shares one
// timezone and compares correctly as text inside SQLite.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// gormLogLevel reads GORM_LOG_LEVEL (silent, error, warn, info), defaulting to warn
func gormLogLevel() logger.LogLevel {
	switch strings.ToLower(os.Getenv("GORM_LOG_LEVEL")) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// WithSQLiteDefaults appends the connection parameters every gallery database needs:
// foreign keys on (likes cascade with their image) and WAL for concurrent readers.
func WithSQLiteDefaults(dataSourceName string) string {
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	params := []string{}
	if !strings.Contains(dataSourceName, "_foreign_keys") && !strings.Contains(dataSourceName, "_fk") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dataSourceName, "mode=memory") && !strings.Contains(dataSourceName, "_journal_mode") {
		params = append(params, "_journal_mode=WAL")
	}
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return dataSourceName
	}
	return dataSourceName + sep + strings.Join(params, "&")
}

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(WithSQLiteDefaults(dataSourceName)), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: NowUTC,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels creates or updates the images and likes tables,
// including the (image_id, user_hash) unique index and the cascading foreign key.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Image{},
		&models.Like{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}
