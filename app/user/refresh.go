package user

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	Token string `json:"token"`
}

// UserRefresh trades a live refresh token for a fresh access token and
// rotates the refresh token itself. A presented token that doesn't
// match the stored value is dead, whatever its signature says.
func UserRefresh(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil || data.Token == "" {
		httperr.Abort(c, httperr.Validation("No refresh token provided"))
		return
	}

	claims, err := d.Tokens.Validate(data.Token, token.Refresh)
	if err != nil {
		if err == token.ErrExpired {
			httperr.Abort(c, httperr.ExpiredToken("Refresh token expired. Please log in again"))
			return
		}

		httperr.Abort(c, httperr.Authentication("Invalid refresh token"))
		return
	}

	user, err := d.Users.FindByID(claims.Subject)
	if err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.Authentication("Invalid refresh token"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to load user for refresh", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.RefreshToken == nil || *user.RefreshToken != data.Token {
		httperr.Abort(c, httperr.Authentication("Invalid refresh token"))
		return
	}

	accessToken, refreshToken, err := mintSessionTokens(d, user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to mint session tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Users.RotateTokens(user.ID, accessToken, refreshToken); err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to rotate tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}
