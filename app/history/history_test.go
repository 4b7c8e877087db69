package history

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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
		DB:      db,
		History: store.NewHistoryStore(db),
	}

	asUser := func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Set("user", &model.User{ID: "u1", Username: "moviefan", Email: "fan@example.com"})
	}

	r := gin.New()
	g := r.Group("/api/history", asUser)
	g.POST("", func(c *gin.Context) { Record(c, d) })
	g.GET("/weekly", func(c *gin.Context) { Weekly(c, d) })
	g.GET("/today", func(c *gin.Context) { Today(c, d) })

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

func TestRecordValidation(t *testing.T) {
	r, _ := newTestEnv(t)

	w, _ := doJSON(r, http.MethodPost, "/api/history", gin.H{"moviesViewed": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(r, http.MethodPost, "/api/history", gin.H{"moviesViewed": 0, "tvShowsViewed": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordAndToday(t *testing.T) {
	r, _ := newTestEnv(t)

	w, _ := doJSON(r, http.MethodPost, "/api/history", gin.H{"moviesViewed": 2, "tvShowsViewed": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(r, http.MethodPost, "/api/history", gin.H{"moviesViewed": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, body := doJSON(r, http.MethodGet, "/api/history/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["moviesViewed"])
	assert.EqualValues(t, 1, body["tvShowsViewed"])
	assert.EqualValues(t, 4, body["totalViews"])
}

func TestTodayWithoutActivity(t *testing.T) {
	r, _ := newTestEnv(t)

	w, body := doJSON(r, http.MethodGet, "/api/history/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["moviesViewed"])
	assert.EqualValues(t, 0, body["tvShowsViewed"])
	assert.EqualValues(t, 0, body["totalViews"])
}

func TestWeeklyZeroFills(t *testing.T) {
	r, d := newTestEnv(t)
	now := time.Now()

	require.NoError(t, d.History.Record("u1", 2, 0, now.AddDate(0, 0, -3)))
	require.NoError(t, d.History.Record("u1", 0, 5, now))

	w, body := doJSON(r, http.MethodGet, "/api/history/weekly", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	labels := body["labels"].([]any)
	movies := body["moviesViewedData"].([]any)
	tvShows := body["tvShowsViewedData"].([]any)

	require.Len(t, labels, 7)
	require.Len(t, movies, 7)
	require.Len(t, tvShows, 7)

	// Oldest first, today last. Days without a row come back as zero.
	assert.Equal(t, model.DayOf(now).Format("2006-01-02"), labels[6])
	assert.EqualValues(t, 5, tvShows[6])
	assert.EqualValues(t, 2, movies[3])
	assert.EqualValues(t, 0, movies[0])
	assert.EqualValues(t, 0, tvShows[1])
}
