package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the same error
// translation the production dialect uses, so duplicate-key handling
// behaves identically.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// an in-memory database exists per connection, so keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&DBUser{},
		&DBUserLevel{},
		&DBOneTimeCode{},
		&DBCurriculum{},
		&DBExamBoard{},
		&DBLevel{},
	))
	return db
}
