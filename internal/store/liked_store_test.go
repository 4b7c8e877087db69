package store

import (
	"testing"

	"bingelog/api/internal/model"
	"bingelog/api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikedToggle(t *testing.T) {
	s := NewLikedStore(testutil.NewDB(t))

	liked, err := s.Toggle("u1", "m1", model.MediaTypeMovie)
	require.NoError(t, err)
	assert.True(t, liked)

	found, err := s.Contains("u1", "m1")
	require.NoError(t, err)
	assert.True(t, found)

	liked, err = s.Toggle("u1", "m1", model.MediaTypeMovie)
	require.NoError(t, err)
	assert.False(t, liked)

	found, err = s.Contains("u1", "m1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLikedListIsPerUser(t *testing.T) {
	s := NewLikedStore(testutil.NewDB(t))

	_, err := s.Toggle("u1", "m1", model.MediaTypeMovie)
	require.NoError(t, err)
	_, err = s.Toggle("u1", "m2", model.MediaTypeTV)
	require.NoError(t, err)
	_, err = s.Toggle("u2", "m3", model.MediaTypeMovie)
	require.NoError(t, err)

	liked, err := s.List("u1")
	require.NoError(t, err)
	assert.Len(t, liked, 2)
}
