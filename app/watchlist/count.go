package watchlist

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Count(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	total, err := d.Watchlist.Count(user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error fetching watchlist", err))

		zap.L().Error("Failed to count watchlist", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   total,
	})
}
