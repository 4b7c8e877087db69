package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService() *Service {
	return New(Config{
		AccessSecret:  "access-secret",
		AccessExpiry:  time.Minute * 15,
		RefreshSecret: "refresh-secret",
		RefreshExpiry: time.Hour * 720,
		VerifySecret:  "verify-secret",
		VerifyExpiry:  time.Hour,
	})
}

func TestIssueAndValidate(t *testing.T) {
	s := testService()

	signed, err := s.Issue(Access, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := s.Validate(signed, Access)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateWrongClass(t *testing.T) {
	s := testService()

	signed, err := s.Issue(Access, "user-1")
	require.NoError(t, err)

	// An access token must never pass as a refresh or verify token,
	// each class signs with its own secret.
	_, err = s.Validate(signed, Refresh)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Validate(signed, Verify)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateExpired(t *testing.T) {
	s := New(Config{
		AccessSecret: "access-secret",
		AccessExpiry: -time.Minute,
	})

	signed, err := s.Issue(Access, "user-1")
	require.NoError(t, err)

	_, err = s.Validate(signed, Access)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateForeignSignature(t *testing.T) {
	s := testService()

	other := New(Config{
		AccessSecret: "some-other-secret",
		AccessExpiry: time.Minute * 15,
	})

	signed, err := other.Issue(Access, "user-1")
	require.NoError(t, err)

	_, err = s.Validate(signed, Access)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateGarbage(t *testing.T) {
	s := testService()

	_, err := s.Validate("not-a-token", Access)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestIssueWithoutSecret(t *testing.T) {
	s := New(Config{})

	_, err := s.Issue(Access, "user-1")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueWithoutSubject(t *testing.T) {
	s := testService()

	_, err := s.Issue(Access, "")
	assert.ErrorIs(t, err, ErrNoSubject)
}
