// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"bingelog/api/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory database for one test and migrates
// the full schema into it. The database name is derived from the test
// name so parallel tests never share state.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(model.User{}, model.WatchlistEntry{}, model.LikedMedia{}, model.ViewHistory{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
