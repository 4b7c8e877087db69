package model

import "time"

// ViewHistory holds one row per user per UTC day. Counters are bumped
// with an atomic upsert so concurrent view reports can't lose updates.
type ViewHistory struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID string    `gorm:"index;uniqueIndex:idx_history_user_day;not null" json:"-"`
	Day    time.Time `gorm:"uniqueIndex:idx_history_user_day;not null" json:"date"`

	MoviesViewed  int `gorm:"default:0" json:"moviesViewed"`
	TVShowsViewed int `gorm:"default:0" json:"tvShowsViewed"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DayOf truncates t to midnight UTC, the bucket key for history rows.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
