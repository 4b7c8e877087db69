package liked

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bingelog/api/internal"
	"bingelog/api/internal/model"
	"bingelog/api/internal/store"
	"bingelog/api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)

	d := &internal.Deps{
		DB:    db,
		Liked: store.NewLikedStore(db),
	}

	asUser := func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Set("user", &model.User{ID: "u1", Username: "moviefan", Email: "fan@example.com"})
	}

	r := gin.New()
	g := r.Group("/api/liked", asUser)
	g.POST("", func(c *gin.Context) { Toggle(c, d) })
	g.GET("", func(c *gin.Context) { List(c, d) })

	return r, d
}

func doJSON(r *gin.Engine, method, path string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	body := bytes.NewBuffer(nil)
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)

	return w, parsed
}

func TestToggle(t *testing.T) {
	r, _ := newTestEnv(t)

	w, body := doJSON(r, http.MethodPost, "/api/liked", gin.H{"mediaId": "603", "mediaType": "movie"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, "Added to liked media", body["message"])

	w, body = doJSON(r, http.MethodPost, "/api/liked", gin.H{"mediaId": "603", "mediaType": "movie"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, "Removed from liked media", body["message"])
}

func TestToggleRequiresMediaID(t *testing.T) {
	r, _ := newTestEnv(t)

	w, _ := doJSON(r, http.MethodPost, "/api/liked", gin.H{"mediaType": "movie"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList(t *testing.T) {
	r, d := newTestEnv(t)

	_, err := d.Liked.Toggle("u1", "603", model.MediaTypeMovie)
	require.NoError(t, err)
	_, err = d.Liked.Toggle("u1", "1399", model.MediaTypeTV)
	require.NoError(t, err)
	_, err = d.Liked.Toggle("someone-else", "603", model.MediaTypeMovie)
	require.NoError(t, err)

	w, body := doJSON(r, http.MethodGet, "/api/liked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]any), 2)
}
