package user

import (
	"net/http"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/middleware"
	"bingelog/api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type changePasswordBody struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UserChangePassword swaps the stored hash after checking the old
// password. Existing tokens are left alone; sessions survive a
// password change.
func UserChangePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	principal, ok := middleware.CurrentUser(c)
	if !ok {
		httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
		return
	}

	var data changePasswordBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		httperr.Abort(c, httperr.Validation(err.Error()))
		return
	}

	// The principal on the context has no password hash, load the
	// full record.
	user, err := d.Users.FindByID(principal.ID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to load user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !user.HasPassword() {
		httperr.Abort(c, httperr.Authentication("Invalid old password"))
		return
	}

	ok, err = d.Hasher.VerifyPasswd(data.OldPassword, user.PasswordHash)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		httperr.Abort(c, httperr.Authentication("Invalid old password"))
		return
	}

	hash, err := d.Hasher.GenerateFromPassword(data.NewPassword)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Users.UpdatePassword(user.ID, hash); err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed successfully!",
	})
}
