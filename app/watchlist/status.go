package watchlist

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status reports whether a single media id is on the user's watchlist.
func Status(c *gin.Context, d *internal.Deps) {
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

	inWatchlist, err := d.Watchlist.Contains(user.ID, mediaID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error checking watchlist", err))

		zap.L().Error("Failed to check watchlist", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"inWatchlist": inWatchlist,
	})
}
