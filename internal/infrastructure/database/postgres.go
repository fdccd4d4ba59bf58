package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a new database connection. Tables carry fixed names, point
// search_path in the DSN at another schema to isolate deployments.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	config := &gorm.Config{
		Logger: logger.Default.LogMode(level),
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the profile, message, calendar connection and casbin tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBProfile{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := db.AutoMigrate(&repositories.DBMessage{}); err != nil {
		return fmt.Errorf("failed to migrate messages table: %w", err)
	}
	if err := db.AutoMigrate(&repositories.DBCalendarConnection{}); err != nil {
		return fmt.Errorf("failed to migrate calendar connections table: %w", err)
	}

	// The adapter creates casbin_rule on construction
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
