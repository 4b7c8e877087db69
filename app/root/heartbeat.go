// Package root contains the service-level probe endpoints.
package root

import (
	"net/http"

	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Validate answers 200 with the caller's id when the presented access
// token passed the auth middleware.
func Validate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID": user.ID,
	})
}
