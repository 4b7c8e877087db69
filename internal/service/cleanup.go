package service

import (
	"time"

	"bingelog/api/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScheduleAccountCleanup runs a daily job that deletes local accounts
// which never verified their email within the grace window. Social
// accounts are exempt, they arrive verified.
func ScheduleAccountCleanup(db *gorm.DB, grace time.Duration) *cron.Cron {
	c := cron.New()

	c.AddFunc("@daily", func() {
		cutoff := time.Now().Add(-grace)

		tx := db.
			Where("verified = ? AND social_provider = '' AND created_at < ?", false, cutoff).
			Delete(model.User{})
		if tx.Error != nil {
			zap.L().Error("Failed to cleanup unverified accounts", zap.Error(tx.Error))
			return
		}

		if tx.RowsAffected > 0 {
			zap.L().Info("Cleaned up unverified accounts", zap.Int64("count", tx.RowsAffected))
		}
	})

	c.Start()
	return c
}
