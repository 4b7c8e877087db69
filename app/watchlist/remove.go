package watchlist

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Remove(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	mediaID := c.Param("mediaID")
	if mediaID == "" {
		httperr.Abort(c, httperr.Validation("Media id is required"))
		return
	}

	if err := d.Watchlist.Remove(user.ID, mediaID); err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.NotFound("Media not found in watchlist"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Error removing from watchlist", err))

		zap.L().Error("Failed to remove watchlist entry", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from watchlist",
	})
}
