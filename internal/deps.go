package internal

import (
	"bingelog/api/internal/service"
	"bingelog/api/internal/storage"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/security"
	"bingelog/api/pkg/token"

	"gorm.io/gorm"
)

// Deps bundles everything the handlers need. Avatars is nil when
// object storage is disabled in the config.
type Deps struct {
	DB        *gorm.DB
	Users     *store.UserStore
	Watchlist *store.WatchlistStore
	Liked     *store.LikedStore
	History   *store.HistoryStore

	Hasher  *security.PasswordHasher
	Tokens  *token.Service
	Mailer  service.Mailer
	Avatars *storage.AvatarStore
}
