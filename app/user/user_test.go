package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bingelog/api/internal"
	"bingelog/api/internal/service"
	"bingelog/api/internal/store"
	"bingelog/api/internal/testutil"
	"bingelog/api/pkg/middleware"
	"bingelog/api/pkg/security"
	"bingelog/api/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	sent []*service.Mail
	fail bool
}

func (m *stubMailer) Send(mail *service.Mail) error {
	if m.fail {
		return errors.New("smtp relay unreachable")
	}

	m.sent = append(m.sent, mail)
	return nil
}

func newTestEnv(t *testing.T) (*gin.Engine, *internal.Deps, *stubMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	mailer := &stubMailer{}

	d := &internal.Deps{
		DB:    db,
		Users: store.NewUserStore(db),

		Hasher: &security.PasswordHasher{Cost: 10},
		Tokens: token.New(token.Config{
			AccessSecret:  "access-secret",
			AccessExpiry:  time.Minute * 15,
			RefreshSecret: "refresh-secret",
			RefreshExpiry: time.Hour * 720,
			VerifySecret:  "verify-secret",
			VerifyExpiry:  time.Hour,
		}),
		Mailer: mailer,
	}

	auth := middleware.NewAuthMiddleware(d.Users, d.Tokens)

	r := gin.New()
	r.POST("/api/users", func(c *gin.Context) { UserRegister(c, d) })
	r.POST("/api/users/login", func(c *gin.Context) { UserLogin(c, d) })
	r.POST("/api/users/google-login", func(c *gin.Context) { UserGoogleLogin(c, d) })
	r.GET("/api/users/verify-email", func(c *gin.Context) { UserVerify(c, d) })
	r.POST("/api/users/refresh", func(c *gin.Context) { UserRefresh(c, d) })
	r.POST("/api/users/logout", auth, middleware.Protect(), func(c *gin.Context) { UserLogout(c, d) })
	r.PUT("/api/users/password", auth, middleware.Protect(), func(c *gin.Context) { UserChangePassword(c, d) })

	return r, d, mailer
}

func doJSON(r *gin.Engine, method, path string, payload any, bearer string) (*httptest.ResponseRecorder, map[string]any) {
	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &parsed)

	return w, parsed
}

func register(t *testing.T, r *gin.Engine, email string) map[string]any {
	t.Helper()

	w, body := doJSON(r, http.MethodPost, "/api/users", gin.H{
		"username": "moviefan",
		"email":    email,
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return body
}

func TestRegister(t *testing.T) {
	r, d, mailer := newTestEnv(t)

	body := register(t, r, "fan@example.com")
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "fan@example.com", mailer.sent[0].To)

	u, err := d.Users.FindByEmail("fan@example.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)
	require.NotNil(t, u.VerificationToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, _ := newTestEnv(t)

	register(t, r, "fan@example.com")

	w, body := doJSON(r, http.MethodPost, "/api/users", gin.H{
		"username": "other",
		"email":    "fan@example.com",
		"password": "hunter22",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", body["error"])
	assert.Equal(t, "conflict", body["kind"])
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := newTestEnv(t)

	cases := []gin.H{
		{"username": "moviefan", "email": "not-an-email", "password": "hunter22"},
		{"username": "mf", "email": "fan@example.com", "password": "hunter22"},
		{"username": "moviefan", "email": "fan@example.com", "password": "short"},
	}

	for _, payload := range cases {
		w, _ := doJSON(r, http.MethodPost, "/api/users", payload, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRegisterMailFailure(t *testing.T) {
	r, _, mailer := newTestEnv(t)
	mailer.fail = true

	w, _ := doJSON(r, http.MethodPost, "/api/users", gin.H{
		"username": "moviefan",
		"email":    "fan@example.com",
		"password": "hunter22",
	}, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogin(t *testing.T) {
	r, _, _ := newTestEnv(t)

	register(t, r, "fan@example.com")

	w, body := doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "fan@example.com",
		"password": "hunter22",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.Equal(t, "moviefan", body["username"])
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	r, _, _ := newTestEnv(t)

	register(t, r, "fan@example.com")

	// Wrong password and unknown email must be indistinguishable, a
	// different message would leak which emails are registered.
	w1, body1 := doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "fan@example.com",
		"password": "wrong-password",
	}, "")
	w2, body2 := doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "nobody@example.com",
		"password": "hunter22",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, body1["error"], body2["error"])
	assert.Equal(t, "Invalid email or password", body1["error"])
}

func TestLoginRotationKillsOldRefreshToken(t *testing.T) {
	r, _, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	oldRefresh := first["refreshToken"].(string)

	w, _ := doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "fan@example.com",
		"password": "hunter22",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Logging in rotated the stored pair, the registration-time refresh
	// token no longer matches anything.
	w, body := doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": oldRefresh}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", body["error"])
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	r, d, _ := newTestEnv(t)

	register(t, r, "fan@example.com")

	u, err := d.Users.FindByEmail("fan@example.com")
	require.NoError(t, err)
	require.NotNil(t, u.VerificationToken)

	w, body := doJSON(r, http.MethodGet, "/api/users/verify-email?token="+*u.VerificationToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	verified, err := d.Users.FindByEmail("fan@example.com")
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Nil(t, verified.VerificationToken)

	// Replaying the same link must fail exactly like a forged one.
	w, body = doJSON(r, http.MethodGet, "/api/users/verify-email?token="+*u.VerificationToken, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", body["error"])
	assert.Equal(t, "invalid_token", body["kind"])
}

func TestVerifyEmailRejectsForgedToken(t *testing.T) {
	r, _, _ := newTestEnv(t)

	w, body := doJSON(r, http.MethodGet, "/api/users/verify-email?token=forged", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", body["error"])
}

func TestRefreshRotation(t *testing.T) {
	r, _, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	oldRefresh := first["refreshToken"].(string)

	w, body := doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": oldRefresh}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	newRefresh := body["refreshToken"].(string)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEqual(t, oldRefresh, newRefresh)

	// The consumed token is dead, only the rotated one works.
	w, _ = doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": oldRefresh}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": newRefresh}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsWrongClassToken(t *testing.T) {
	r, _, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	access := first["accessToken"].(string)

	w, body := doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": access}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid refresh token", body["error"])
}

func TestGoogleLoginCreatesVerifiedAccount(t *testing.T) {
	r, d, _ := newTestEnv(t)

	w, body := doJSON(r, http.MethodPost, "/api/users/google-login", gin.H{
		"email":    "social@example.com",
		"name":     "Social Fan",
		"googleId": "g-123",
		"avatar":   "https://lh3.example.com/photo.jpg",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["refreshToken"])

	u, err := d.Users.FindByEmail("social@example.com")
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "google", u.SocialProvider)
	assert.Equal(t, "g-123", u.SocialID)

	// No hash means no local login, with the same message as a wrong
	// password.
	w, lbody := doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "social@example.com",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", lbody["error"])
}

func TestGoogleLoginRefreshesExistingAccount(t *testing.T) {
	r, d, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	oldRefresh := first["refreshToken"].(string)

	w, body := doJSON(r, http.MethodPost, "/api/users/google-login", gin.H{
		"email":    "fan@example.com",
		"name":     "Movie Fan",
		"googleId": "g-456",
		"avatar":   "https://lh3.example.com/new.jpg",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, first["id"], body["id"])

	u, err := d.Users.FindByEmail("fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "google", u.SocialProvider)
	assert.Equal(t, "g-456", u.SocialID)
	require.NotNil(t, u.Avatar)
	assert.Equal(t, "https://lh3.example.com/new.jpg", *u.Avatar)

	// Linking rotated the stored pair, the registration-time refresh
	// token is dead.
	w, _ = doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": oldRefresh}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	r, _, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	access := first["accessToken"].(string)

	w, body := doJSON(r, http.MethodPut, "/api/users/password", gin.H{
		"oldPassword": "not-the-password",
		"newPassword": "hunter33",
	}, access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid old password", body["error"])

	w, _ = doJSON(r, http.MethodPut, "/api/users/password", gin.H{
		"oldPassword": "hunter22",
		"newPassword": "hunter33",
	}, access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the new password logs in now.
	w, _ = doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "fan@example.com",
		"password": "hunter22",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(r, http.MethodPost, "/api/users/login", gin.H{
		"email":    "fan@example.com",
		"password": "hunter33",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePasswordRejectsSocialOnlyAccount(t *testing.T) {
	r, _, _ := newTestEnv(t)

	w, body := doJSON(r, http.MethodPost, "/api/users/google-login", gin.H{
		"email":    "social@example.com",
		"name":     "Social Fan",
		"googleId": "g-123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	access := body["token"].(string)

	// There is no old password to verify against.
	w, pbody := doJSON(r, http.MethodPut, "/api/users/password", gin.H{
		"oldPassword": "anything",
		"newPassword": "hunter33",
	}, access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid old password", pbody["error"])
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	r, _, _ := newTestEnv(t)

	first := register(t, r, "fan@example.com")
	access := first["accessToken"].(string)
	refresh := first["refreshToken"].(string)

	w, _ := doJSON(r, http.MethodPost, "/api/users/logout", nil, access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(r, http.MethodPost, "/api/users/refresh", gin.H{"token": refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
