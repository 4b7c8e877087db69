package history

import (
	"net/http"
	"time"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Today returns the running totals for the current UTC day.
func Today(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	row, err := d.History.Today(user.ID, time.Now())
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error retrieving view history", err))

		zap.L().Error("Failed to fetch today's view history", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"moviesViewed":  row.MoviesViewed,
		"tvShowsViewed": row.TVShowsViewed,
		"totalViews":    row.MoviesViewed + row.TVShowsViewed,
	})
}
