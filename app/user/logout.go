package user

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout drops both stored tokens. The access token stays valid
// until its signed expiry (it is self-certifying), the refresh token
// becomes unusable right here.
func UserLogout(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	if err := d.Users.ClearTokens(user.ID); err != nil {
		httperr.Abort(c, httperr.Dependency("Error logging out", err))

		zap.L().Error("Failed to clear tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
