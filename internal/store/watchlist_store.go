package store

import (
	"errors"

	"bingelog/api/internal/model"

	"gorm.io/gorm"
)

var ErrAlreadyListed = errors.New("media already in watchlist")

type WatchlistStore struct {
	DB *gorm.DB
}

func NewWatchlistStore(db *gorm.DB) *WatchlistStore {
	return &WatchlistStore{DB: db}
}

// Add relies on the (user_id, media_id) unique index to reject
// duplicates, racing adds included.
func (s *WatchlistStore) Add(e *model.WatchlistEntry) error {
	err := s.DB.Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyListed
	}

	return err
}

func (s *WatchlistStore) Remove(userID, mediaID string) error {
	tx := s.DB.Where("user_id = ? AND media_id = ?", userID, mediaID).Delete(model.WatchlistEntry{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *WatchlistStore) List(userID string, page, limit int) ([]model.WatchlistEntry, int64, error) {
	var entries []model.WatchlistEntry

	err := s.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = s.DB.Model(model.WatchlistEntry{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error

	return entries, total, err
}

func (s *WatchlistStore) Contains(userID, mediaID string) (bool, error) {
	var found bool

	err := s.DB.Model(model.WatchlistEntry{}).
		Select("count(*) > 0").
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Find(&found).
		Error

	return found, err
}

func (s *WatchlistStore) Count(userID string) (int64, error) {
	var total int64

	err := s.DB.Model(model.WatchlistEntry{}).
		Where("user_id = ?", userID).
		Count(&total).
		Error

	return total, err
}
