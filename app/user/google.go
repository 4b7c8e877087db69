package user

import (
	"net/http"
	"strings"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type googleLoginBody struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
	GoogleID string  `json:"googleId"`
}

// UserGoogleLogin trusts the identity provider's email assertion: an
// existing account gets its social descriptor refreshed, a new one is
// created already verified and without a password.
func UserGoogleLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data googleLoginBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Email = strings.TrimSpace(data.Email)

	if err := validators.EmailValidator(data.Email); err != nil {
		httperr.Abort(c, httperr.Validation(err.Error()))
		return
	}

	if data.GoogleID == "" {
		httperr.Abort(c, httperr.Validation("No provider id supplied"))
		return
	}

	user, err := d.Users.FindByEmail(data.Email)
	if err != nil && err != store.ErrNotFound {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user == nil {
		userID, err := gonanoid.Generate(idCharset, 16)
		if err != nil {
			httperr.Abort(c, httperr.Dependency("Internal server error", err))
			return
		}

		accessToken, refreshToken, err := mintSessionTokens(d, userID)
		if err != nil {
			httperr.Abort(c, httperr.Dependency("Internal server error", err))
			return
		}

		user = &model.User{
			ID:             userID,
			Username:       data.Name,
			Email:          data.Email,
			Avatar:         data.Avatar,
			Verified:       true,
			SocialProvider: "google",
			SocialID:       data.GoogleID,
			AccessToken:    &accessToken,
			RefreshToken:   &refreshToken,
		}

		if err := d.Users.Create(user); err != nil {
			httperr.Abort(c, httperr.Dependency("Internal server error", err))

			zap.L().Error("Failed to create social user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":        true,
			"id":             user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"avatar":         avatarURL(d, user.Avatar),
			"favoriteGenres": user.FavoriteGenres,
			"token":          accessToken,
			"refreshToken":   refreshToken,
		})
		return
	}

	accessToken, refreshToken, err := mintSessionTokens(d, user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))
		return
	}

	fields := map[string]any{
		"social_provider": "google",
		"social_id":       data.GoogleID,
		"access_token":    accessToken,
		"refresh_token":   refreshToken,
	}
	if data.Avatar != nil {
		fields["avatar"] = *data.Avatar
	}

	if err := d.Users.UpdateProfile(user.ID, fields); err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to update social user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Avatar != nil {
		user.Avatar = data.Avatar
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"avatar":         avatarURL(d, user.Avatar),
		"favoriteGenres": user.FavoriteGenres,
		"token":          accessToken,
		"refreshToken":   refreshToken,
	})
}
