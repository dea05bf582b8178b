package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LoggedIn(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.LoggedIn(now))
	assert.False(t, Session{AccessToken: "t", ExpiresAt: now.Add(-time.Second)}.LoggedIn(now))
	assert.True(t, Session{AccessToken: "t", ExpiresAt: now.Add(time.Minute)}.LoggedIn(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.LoggedIn(now))
}

func TestSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewSessionStore(path)

	empty, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{}, empty)

	require.NoError(t, store.SetPincode("400001"))
	require.NoError(t, store.SaveLogin(Session{AccessToken: "a", RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour), Email: "a@a.com"}))

	reopened := NewSessionStore(path)
	s, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "a@a.com", s.Email)
	assert.Equal(t, "400001", s.Pincode)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.ClearLogin())
	s, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, s.AccessToken)
	assert.Equal(t, "400001", s.Pincode)
}

func TestSessionStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewSessionStore(path).Load()
	assert.Error(t, err)
}
