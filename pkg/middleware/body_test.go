package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupBodyRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/echo", BodySizeLimiter(limit), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusOK)
	})

	return r
}

func TestBodySizeLimiterRejectsDeclaredOversize(t *testing.T) {
	r := setupBodyRouter(16)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 32)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimiterCapsChunkedBodies(t *testing.T) {
	r := setupBodyRouter(16)

	// MultiReader hides the length, so the request goes out without a
	// Content-Length and only the capped reader can stop it.
	req := httptest.NewRequest(http.MethodPost, "/echo", io.MultiReader(strings.NewReader(strings.Repeat("x", 64))))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodySizeLimiterPassesSmallBodies(t *testing.T) {
	r := setupBodyRouter(16)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("tiny"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
