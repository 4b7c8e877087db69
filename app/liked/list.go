package liked

import (
	"net/http"

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

	liked, err := d.Liked.List(user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error fetching liked media", err))

		zap.L().Error("Failed to fetch liked media", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    liked,
	})
}
