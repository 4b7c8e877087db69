// Package model holds the database schema of the application
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	Avatar       *string
	Verified     bool `gorm:"default:false" json:"verified"`

	FavoriteGenres GenreList `gorm:"type:text" json:"favoriteGenres"`

	// Social login linkage. Accounts created through a provider have
	// no password hash and start out verified.
	SocialProvider string `json:"-"`
	SocialID       string `json:"-"`

	// Latest issued tokens are mirrored here so that logout and
	// refresh rotation can revoke them. A refresh or verification
	// token that doesn't match the stored value is dead.
	AccessToken       *string `json:"-"`
	RefreshToken      *string `json:"-"`
	VerificationToken *string `json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time

	WatchlistEntries []WatchlistEntry `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LikedMedia       []LikedMedia     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ViewHistory      []ViewHistory    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasPassword reports whether the account can log in locally.
// Pure social-login accounts carry no hash at all.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
