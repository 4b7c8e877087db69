// Package store wraps the persistence operations behind small
// repository types so handlers never touch query syntax directly.
package store

import (
	"errors"

	"bingelog/api/internal/model"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore is the credential store: user records with the mirrored
// token fields the revocation scheme depends on.
type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

func (s *UserStore) Create(u *model.User) error {
	err := s.DB.Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}

	return err
}

func (s *UserStore) FindByEmail(email string) (*model.User, error) {
	var u model.User

	err := s.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *UserStore) FindByID(id string) (*model.User, error) {
	var u model.User

	err := s.DB.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// FindByIDSafe loads a user without the password hash. This is what
// gets attached to request contexts.
func (s *UserStore) FindByIDSafe(id string) (*model.User, error) {
	var u model.User

	err := s.DB.Omit("password_hash").Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *UserStore) EmailExists(email string) (bool, error) {
	var found bool

	err := s.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found).
		Error

	return found, err
}

// RotateTokens overwrites the stored access and refresh tokens,
// killing any previously issued refresh token.
func (s *UserStore) RotateTokens(userID, access, refresh string) error {
	return s.updateByID(userID, map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// ClearTokens drops both stored tokens. This is the logout/revocation
// path: the access token stays self-certifying until its expiry, the
// refresh token dies here and now.
func (s *UserStore) ClearTokens(userID string) error {
	return s.updateByID(userID, map[string]any{
		"access_token":  nil,
		"refresh_token": nil,
	})
}

func (s *UserStore) SetVerificationToken(userID, token string) error {
	return s.updateByID(userID, map[string]any{"verification_token": token})
}

// ConsumeVerificationToken flips the verified flag and clears the
// stored token in one conditional update. Check and clear happen in
// the same statement, so two racing verification attempts can't both
// succeed.
func (s *UserStore) ConsumeVerificationToken(userID, presented string) (bool, error) {
	tx := s.DB.Model(model.User{}).
		Where("id = ? AND verification_token = ?", userID, presented).
		Updates(map[string]any{
			"verified":           true,
			"verification_token": nil,
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}

func (s *UserStore) UpdatePassword(userID, hash string) error {
	return s.updateByID(userID, map[string]any{"password_hash": hash})
}

func (s *UserStore) UpdateProfile(userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	err := s.updateByID(userID, fields)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}

	return err
}

func (s *UserStore) Delete(userID string) error {
	tx := s.DB.Where("id = ?", userID).Delete(model.User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AddFavoriteGenres merges new genres into the stored list, dropping
// anything whose id is already present. The merge is a read-modify-write
// in one transaction; when two adds race, the last writer wins.
func (s *UserStore) AddFavoriteGenres(userID string, genres []model.Genre) (model.GenreList, error) {
	var merged model.GenreList

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var u model.User

		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		merged = u.FavoriteGenres
		for _, g := range genres {
			if !merged.Contains(g.ID) {
				merged = append(merged, g)
			}
		}

		return tx.Model(model.User{}).
			Where("id = ?", userID).
			Update("favorite_genres", merged).
			Error
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}

func (s *UserStore) RemoveFavoriteGenre(userID string, genreID int) (model.GenreList, error) {
	var kept model.GenreList

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var u model.User

		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		kept = model.GenreList{}
		for _, g := range u.FavoriteGenres {
			if g.ID != genreID {
				kept = append(kept, g)
			}
		}

		return tx.Model(model.User{}).
			Where("id = ?", userID).
			Update("favorite_genres", kept).
			Error
	})
	if err != nil {
		return nil, err
	}

	return kept, nil
}

func (s *UserStore) updateByID(userID string, fields map[string]any) error {
	tx := s.DB.Model(model.User{}).Where("id = ?", userID).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
