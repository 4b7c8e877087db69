// Package user implements the account lifecycle endpoints.
package user

import (
	"net/http"
	"strings"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/internal/service"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/token"
	"bingelog/api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type registerBody struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Avatar   *string `json:"avatar"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		httperr.Abort(c, httperr.Validation("Invalid request body"))

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Username = strings.TrimSpace(data.Username)
	data.Email = strings.TrimSpace(data.Email)
	data.Password = strings.TrimSpace(data.Password)

	if err := validators.UsernameValidator(data.Username); err != nil {
		httperr.Abort(c, httperr.Validation(err.Error()))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		httperr.Abort(c, httperr.Validation(err.Error()))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		httperr.Abort(c, httperr.Validation(err.Error()))
		return
	}

	exists, err := d.Users.EmailExists(data.Email)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if exists {
		httperr.Abort(c, httperr.Conflict("User already exists"))
		return
	}

	hash, err := d.Hasher.GenerateFromPassword(data.Password)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))
		return
	}

	accessToken, err := d.Tokens.Issue(token.Access, userID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to mint access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	refreshToken, err := d.Tokens.Issue(token.Refresh, userID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))
		return
	}

	verifyToken, err := d.Tokens.Issue(token.Verify, userID)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))
		return
	}

	err = d.Users.Create(&model.User{
		ID:                userID,
		Username:          data.Username,
		Email:             data.Email,
		PasswordHash:      hash,
		Avatar:            data.Avatar,
		Verified:          false,
		AccessToken:       &accessToken,
		RefreshToken:      &refreshToken,
		VerificationToken: &verifyToken,
	})
	if err != nil {
		// Lost a race against a concurrent registration with the same
		// email. The unique constraint is the arbiter.
		if err == store.ErrDuplicateEmail {
			httperr.Abort(c, httperr.Conflict("User already exists"))
			return
		}

		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	mail := service.VerificationMail(data.Email, service.VerificationURL(verifyToken), viper.GetDuration("auth.verify_expiry"))

	if err := d.Mailer.Send(mail); err != nil {
		httperr.Abort(c, httperr.Dependency("Failed to send verification email", err))

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"id":           userID,
		"username":     data.Username,
		"email":        data.Email,
		"avatar":       data.Avatar,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"message":      "Registration successful. Please check your email to verify your account.",
	})
}
