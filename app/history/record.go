// Package history implements the per-day view analytics endpoints.
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

type recordBody struct {
	MoviesViewed  int `json:"moviesViewed"`
	TVShowsViewed int `json:"tvShowsViewed"`
}

// Record adds the reported view counts to today's bucket.
func Record(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data recordBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))
		return
	}

	if data.MoviesViewed < 0 || data.TVShowsViewed < 0 {
		httperr.Abort(c, httperr.Validation("View counts can't be negative"))
		return
	}

	if data.MoviesViewed == 0 && data.TVShowsViewed == 0 {
		httperr.Abort(c, httperr.Validation("Nothing to record"))
		return
	}

	if err := d.History.Record(user.ID, data.MoviesViewed, data.TVShowsViewed, time.Now()); err != nil {
		httperr.Abort(c, httperr.Dependency("Error updating activity", err))

		zap.L().Error("Failed to record view history", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Activity updated successfully",
	})
}
