package user

import (
	"encoding/json"
	"net/http"
	"net/url"

	"bingelog/api/internal"
	"bingelog/api/pkg/httperr"
	"bingelog/api/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// UserVerify consumes a verification token. "Already consumed" and
// "forged" are deliberately indistinguishable to the caller.
func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	presented := c.Query("token")
	if presented == "" {
		httperr.Abort(c, httperr.Validation("No verification token provided"))
		return
	}

	claims, err := d.Tokens.Validate(presented, token.Verify)
	if err != nil {
		httperr.Abort(c, httperr.InvalidToken("Invalid or expired token"))
		return
	}

	// Check-and-clear runs as one conditional update. A second
	// presentation of the same token finds nothing to match and dies
	// here, no replay window.
	consumed, err := d.Users.ConsumeVerificationToken(claims.Subject, presented)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to consume verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !consumed {
		httperr.Abort(c, httperr.InvalidToken("Invalid or expired token"))
		return
	}

	user, err := d.Users.FindByIDSafe(claims.Subject)
	if err != nil {
		httperr.Abort(c, httperr.Dependency("Internal server error", err))

		zap.L().Error("Failed to load verified user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	payload := gin.H{
		"success":        true,
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"avatar":         avatarURL(d, user.Avatar),
		"favoriteGenres": user.FavoriteGenres,
		"message":        "Email verified successfully!",
	}

	// The frontend can take the result as a redirect with the payload
	// in a query parameter instead of plain JSON.
	if redirect := viper.GetString("host.verify_redirect"); redirect != "" {
		b, _ := json.Marshal(payload)
		c.Redirect(http.StatusFound, redirect+"?data="+url.QueryEscape(string(b)))
		return
	}

	c.JSON(http.StatusOK, payload)
}
