// Package db contains the database connection bootstrap
package db

import (
	"bingelog/api/config"
	"bingelog/api/internal/model"
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	dsn := viper.GetString("storage.dsn")

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey so the stores can rely on one sentinel.
	cfg := &gorm.Config{TranslateError: true}

	switch viper.GetString("storage.driver") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	if !config.SkipMigrations() {
		err = db.AutoMigrate(model.User{}, model.WatchlistEntry{}, model.LikedMedia{}, model.ViewHistory{})
		if err != nil {
			return nil, fmt.Errorf("failed to automigrate tables, %w", err)
		}
	}

	return db, nil
}
