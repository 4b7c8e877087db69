package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bingelog/api/internal/model"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

// NewAuthMiddleware is the request gate for protected routes. It pulls
// the bearer token out of the Authorization header, validates it as an
// access token and attaches the referenced user (password excluded) to
// the request context.
//
// Expired tokens fail closed with a machine-readable kind instead of
// refreshing in place; rotation belongs to the refresh endpoint, not
// to the gate.
func NewAuthMiddleware(users *store.UserStore, tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			httperr.Abort(c, httperr.Unauthenticated("No token provided"))
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(authz, "Bearer "), token.Access)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":     "Authorization token expired. Please refresh",
					"kind":      httperr.KindExpiredToken,
					"requestID": requestID,
				})
				return
			}

			httperr.Abort(c, httperr.Forbidden("Authorization token invalid"))
			return
		}

		// The account may have been deleted since the token was
		// signed, so the gate always resolves the user.
		user, err := users.FindByIDSafe(claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httperr.Abort(c, httperr.NotFound("User not found"))
				return
			}

			httperr.Abort(c, httperr.Dependency("Internal server error", err))

			zap.L().Error("Failed to load authenticated user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set(userKey, user)
		c.Next()
	}
}

// Protect is a second, independent gate applied after the auth
// middleware. It only enforces that a user was actually attached and
// fails closed if not.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userKey); !ok {
			httperr.Abort(c, httperr.Unauthenticated("Not authorized"))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the user the auth middleware attached to this
// request.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}

	u, ok := v.(*model.User)
	return u, ok
}
