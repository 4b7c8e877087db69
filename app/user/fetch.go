package user

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"avatar":         avatarURL(d, user.Avatar),
		"verified":       user.Verified,
		"favoriteGenres": user.FavoriteGenres,
		"createdAt":      user.CreatedAt,
	})
}
