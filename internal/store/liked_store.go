package store

import (
	"errors"

	"bingelog/api/internal/model"

	"gorm.io/gorm"
)

type LikedStore struct {
	DB *gorm.DB
}

func NewLikedStore(db *gorm.DB) *LikedStore {
	return &LikedStore{DB: db}
}

// Toggle likes the media if it isn't liked yet and unlikes it
// otherwise. Returns whether the media is liked afterwards.
func (s *LikedStore) Toggle(userID, mediaID, mediaType string) (liked bool, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND media_id = ?", userID, mediaID).Delete(model.LikedMedia{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		liked = true
		return tx.Create(&model.LikedMedia{
			UserID:    userID,
			MediaID:   mediaID,
			MediaType: mediaType,
		}).Error
	})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent like, the media ended up
		// liked either way.
		return true, nil
	}

	return liked, err
}

func (s *LikedStore) List(userID string) ([]model.LikedMedia, error) {
	var liked []model.LikedMedia

	err := s.DB.
		Where("user_id = ?", userID).
		Order("liked_at desc").
		Find(&liked).
		Error

	return liked, err
}

func (s *LikedStore) Contains(userID, mediaID string) (bool, error) {
	var found bool

	err := s.DB.Model(model.LikedMedia{}).
		Select("count(*) > 0").
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Find(&found).
		Error

	return found, err
}
