package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	h := &PasswordHasher{Cost: 10}

	hash, err := h.GenerateFromPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	ok, err := h.VerifyPasswd("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyMismatchIsNotAnError(t *testing.T) {
	h := &PasswordHasher{Cost: 10}

	hash, err := h.GenerateFromPassword("right")
	require.NoError(t, err)

	ok, err := h.VerifyPasswd("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyBrokenHash(t *testing.T) {
	h := New()

	ok, err := h.VerifyPasswd("whatever", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRejectsWeakCost(t *testing.T) {
	h := &PasswordHasher{Cost: 4}

	_, err := h.GenerateFromPassword("whatever")
	assert.Error(t, err)
}
