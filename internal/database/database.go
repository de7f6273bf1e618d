package database

import (
	"fmt"
	"time"

	"transaction-dashboard/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Initialize opens the MySQL connection pool and makes sure the
// transactions table exists.
func Initialize(databaseURL string, log zerolog.Logger) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("empty database url")
	}

	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db, log); err != nil {
		return nil, err
	}

	log.Info().Msg("database initialized")
	return db, nil
}

// Migrate creates the transactions table and adds any missing columns.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if !db.Migrator().HasTable(&models.Transaction{}) {
		log.Info().Msg("creating transactions table")
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		return fmt.Errorf("failed migrating transactions table: %w", err)
	}
	return nil
}
