package watchlist

import (
	"math"
	"net/http"
	"strconv"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func List(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	entries, total, err := d.Watchlist.List(user.ID, page, limit)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error fetching watchlist", err))

		zap.L().Error("Failed to fetch watchlist", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"pagination": gin.H{
			"current":    page,
			"total":      int(math.Ceil(float64(total) / float64(limit))),
			"totalItems": total,
		},
	})
}
