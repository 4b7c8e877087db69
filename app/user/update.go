package user

import (
	"net/http"
	"strings"

	"bingelog/api/internal"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"
	"bingelog/api/pkg/token"
	"bingelog/api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserUpdate changes username/email and optionally replaces the
// avatar. Sent as a multipart form so the avatar file can ride along.
func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	fields := map[string]any{}

	if username := strings.TrimSpace(c.PostForm("username")); username != "" {
		if err := validators.UsernameValidator(username); err != nil {
			httperr.Abort(c, httperr.Validation(err.Error()))
			return
		}

		fields["username"] = username
		user.Username = username
	}

	if email := strings.TrimSpace(c.PostForm("email")); email != "" {
		if err := validators.EmailValidator(email); err != nil {
			httperr.Abort(c, httperr.Validation(err.Error()))
			return
		}

		fields["email"] = email
		user.Email = email
	}

	if file, err := c.FormFile("avatar"); err == nil {
		if d.Avatars == nil {
			httperr.Abort(c, httperr.Validation("Avatar uploads are disabled"))
			return
		}

		src, err := file.Open()
		if err != nil {
			httperr.Abort(c, httperr.Validation("Can't read avatar file"))
			return
		}
		defer src.Close()

		contentType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			httperr.Abort(c, httperr.Validation("Avatar must be an image"))
			return
		}

		key, err := d.Avatars.Upload(c.Request.Context(), user.ID, src, contentType)
		if err != nil {
			httperr.Abort(c, httperr.Dependency("Failed to store avatar", err))

			zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// Old object is garbage now. Losing it only wastes bucket
		// space, so a failure doesn't fail the request.
		if user.Avatar != nil && !strings.HasPrefix(*user.Avatar, "http") {
			if err := d.Avatars.Delete(c.Request.Context(), *user.Avatar); err != nil {
				zap.L().Warn("Failed to delete old avatar", zap.Error(err), zap.String("requestID", requestID))
			}
		}

		fields["avatar"] = key
		user.Avatar = &key
	}

	accessToken, err := d.Tokens.Issue(token.Access, user.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))
		return
	}
	fields["access_token"] = accessToken

	if err := d.Users.UpdateProfile(user.ID, fields); err != nil {
		if err == store.ErrDuplicateEmail {
			httperr.Abort(c, httperr.Conflict("This email is already registered"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to update profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"avatar":   avatarURL(d, user.Avatar),
		"token":    accessToken,
	})
}
