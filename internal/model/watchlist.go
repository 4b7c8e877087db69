package model

import "time"

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

type WatchlistEntry struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string `gorm:"index;uniqueIndex:idx_watchlist_user_media;not null" json:"-"`
	MediaID    string `gorm:"uniqueIndex:idx_watchlist_user_media;not null" json:"mediaId"`
	MediaTitle string `gorm:"not null" json:"mediaTitle"`
	PosterPath string `json:"posterPath"`
	MediaType  string `gorm:"not null" json:"mediaType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
