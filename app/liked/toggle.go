// Package liked implements the liked-media endpoints.
package liked

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type toggleBody struct {
	MediaID   string `json:"mediaId"`
	MediaType string `json:"mediaType"`
}

// Toggle likes the media, or unlikes it when it was liked already.
func Toggle(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data toggleBody
	if err := c.ShouldBind(&data); err != nil || data.MediaID == "" {
		httperr.Abort(c, httperr.Validation("Media id is required"))
		return
	}

	if data.MediaType == "" {
		data.MediaType = model.MediaTypeMovie
	}

	nowLiked, err := d.Liked.Toggle(user.ID, data.MediaID, data.MediaType)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Error updating liked media", err))

		zap.L().Error("Failed to toggle liked media", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	message := "Removed from liked media"
	if nowLiked {
		message = "Added to liked media"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"liked":   nowLiked,
		"message": message,
	})
}
