package model

import "time"

type LikedMedia struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string `gorm:"index;uniqueIndex:idx_liked_user_media;not null" json:"-"`
	MediaID   string `gorm:"uniqueIndex:idx_liked_user_media;not null" json:"mediaId"`
	MediaType string `json:"mediaType"`

	LikedAt time.Time `gorm:"autoCreateTime" json:"likedAt"`
}
