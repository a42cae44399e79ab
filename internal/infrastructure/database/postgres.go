package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/eduauthsvc/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a new database connection. TranslateError is required so
// unique-index violations surface as gorm.ErrDuplicatedKey, which the
// registration flow depends on.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the credential tables and the casbin policy table.
// Catalog tables (curricula, exam boards, levels) are owned by the main
// platform backend and only read here.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBUserLevel{}, &repositories.DBOneTimeCode{}); err != nil {
		return fmt.Errorf("failed to migrate credential tables: %w", err)
	}

	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize casbin policy table: %w", err)
	}

	return nil
}
