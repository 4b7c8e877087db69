package store

import (
	"time"

	"bingelog/api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HistoryStore struct {
	DB *gorm.DB
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{DB: db}
}

// Record bumps today's counters for the user. The upsert increments
// in one statement, so concurrent view reports never lose counts.
func (s *HistoryStore) Record(userID string, movies, tvShows int, at time.Time) error {
	day := model.DayOf(at)

	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{
			"movies_viewed":   gorm.Expr("movies_viewed + ?", movies),
			"tv_shows_viewed": gorm.Expr("tv_shows_viewed + ?", tvShows),
			"updated_at":      at,
		}),
	}).Create(&model.ViewHistory{
		UserID:        userID,
		Day:           day,
		MoviesViewed:  movies,
		TVShowsViewed: tvShows,
	}).Error
}

// Window returns the rows between from (inclusive) and to (exclusive),
// oldest first. Days without activity have no row.
func (s *HistoryStore) Window(userID string, from, to time.Time) ([]model.ViewHistory, error) {
	var rows []model.ViewHistory

	err := s.DB.
		Where("user_id = ? AND day >= ? AND day < ?", userID, model.DayOf(from), model.DayOf(to)).
		Order("day asc").
		Find(&rows).
		Error

	return rows, err
}

// Today returns the counters for the current UTC day, zeroed if the
// user hasn't viewed anything yet.
func (s *HistoryStore) Today(userID string, now time.Time) (*model.ViewHistory, error) {
	var row model.ViewHistory

	err := s.DB.
		Where("user_id = ? AND day = ?", userID, model.DayOf(now)).
		First(&row).
		Error
	if err == gorm.ErrRecordNotFound {
		return &model.ViewHistory{UserID: userID, Day: model.DayOf(now)}, nil
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}
