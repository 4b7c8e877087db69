package user

import (
	"net/http"
	"strings"

	"bingelog/api/internal"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Identical message for unknown email and wrong password, anything
// more specific would leak which emails are registered.
const badCredentials = "Invalid email or password"

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Email = strings.TrimSpace(data.Email)
	data.Password = strings.TrimSpace(data.Password)

	if data.Email == "" || data.Password == "" {
		httperr.Abort(c, httperr.Validation("Email and password are required"))
		return
	}

	user, err := d.Users.FindByEmail(data.Email)
	if err != nil {
		if err == store.ErrNotFound {
			httperr.Abort(c, httperr.Authentication(badCredentials))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Social-only accounts have no hash, they can't log in locally.
	if !user.HasPassword() {
		httperr.Abort(c, httperr.Authentication(badCredentials))
		return
	}

	ok, err := d.Hasher.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		httperr.Abort(c, httperr.Authentication(badCredentials))
		return
	}

	accessToken, refreshToken, err := mintSessionTokens(d, user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to mint session tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Overwriting the stored pair invalidates any refresh token from a
	// previous session.
	if err := d.Users.RotateTokens(user.ID, accessToken, refreshToken); err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to rotate tokens", zap.Error(err), zap.String("requestID", requestID))
		return
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

func mintSessionTokens(d *internal.Deps, userID string) (access, refresh string, err error) {
	access, err = d.Tokens.Issue(token.Access, userID)
	if err != nil {
		return "", "", err
	}

	refresh, err = d.Tokens.Issue(token.Refresh, userID)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}
