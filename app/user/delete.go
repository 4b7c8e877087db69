package user

import (
	"net/http"
	"strings"

	"bingelog/api/internal"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	if d.Avatars != nil && user.Avatar != nil && !strings.HasPrefix(*user.Avatar, "http") {
		if err := d.Avatars.Delete(c.Request.Context(), *user.Avatar); err != nil {
			zap.L().Warn("Failed to delete avatar object", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	if err := d.Users.Delete(user.ID); err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.NotFound("User not found"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully!",
	})
}
