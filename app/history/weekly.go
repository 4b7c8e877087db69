package history

import (
	"net/http"
	"time"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Weekly returns graph-ready data for the last 7 days. Days without
// activity are zero-filled so the frontend doesn't have to.
func Weekly(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	now := time.Now()
	from := model.DayOf(now).AddDate(0, 0, -6)
	to := model.DayOf(now).AddDate(0, 0, 1)

	rows, err := d.History.Window(user.ID, from, to)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error retrieving view history", err))

		zap.L().Error("Failed to fetch view history", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	byDay := make(map[string]model.ViewHistory, len(rows))
	for _, r := range rows {
		byDay[r.Day.Format("2006-01-02")] = r
	}

	labels := make([]string, 0, 7)
	movies := make([]int, 0, 7)
	tvShows := make([]int, 0, 7)

	for i := 6; i >= 0; i-- {
		key := model.DayOf(now).AddDate(0, 0, -i).Format("2006-01-02")

		labels = append(labels, key)
		movies = append(movies, byDay[key].MoviesViewed)
		tvShows = append(tvShows, byDay[key].TVShowsViewed)
	}

	c.JSON(http.StatusOK, gin.H{
		"labels":            labels,
		"moviesViewedData":  movies,
		"tvShowsViewedData": tvShows,
	})
}
