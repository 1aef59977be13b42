package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/balkashynov/feelog/internal/models"
)

// brokenBackend fails every operation, like browser storage that is disabled.
type brokenBackend struct{}

var errDisabled = errors.New("storage disabled")

func (brokenBackend) Get(string) (string, bool, error) { return "", false, errDisabled }
func (brokenBackend) Set(string, string) error         { return errDisabled }
func (brokenBackend) Delete(...string) error           { return errDisabled }

func testSession() Session {
	return Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &models.User{ID: 7, Email: "test@example.com", Name: "Tester", Role: "USER"},
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, zap.NewNop())
	assert.False(t, store.IsAuthenticated())

	store.Save(testSession())
	require.True(t, store.IsAuthenticated())

	t.Run("persists under fixed keys", func(t *testing.T) {
		assert.True(t, backend.Has(KeyAccessToken))
		assert.True(t, backend.Has(KeyRefreshToken))
		assert.True(t, backend.Has(KeyUser))
	})

	t.Run("new store reads the persisted session", func(t *testing.T) {
		reloaded := NewStore(backend, zap.NewNop())
		snap := reloaded.Snapshot()
		assert.Equal(t, "access-1", snap.AccessToken)
		assert.Equal(t, "refresh-1", snap.RefreshToken)
		require.NotNil(t, snap.User)
		assert.Equal(t, "test@example.com", snap.User.Email)
	})

	t.Run("save overwrites", func(t *testing.T) {
		store.Save(Session{AccessToken: "access-2", RefreshToken: "refresh-2"})
		assert.Equal(t, "access-2", store.AccessToken())
		assert.Nil(t, store.User())
		assert.False(t, backend.Has(KeyUser))
	})
}

func TestStore_AuthHeader(t *testing.T) {
	store := NewStore(NewMemoryBackend(), nil)

	_, _, ok := store.AuthHeader()
	assert.False(t, ok)

	store.Save(testSession())
	name, value, ok := store.AuthHeader()
	require.True(t, ok)
	assert.Equal(t, "Authorization", name)
	assert.Equal(t, "Bearer access-1", value)
}

func TestStore_Clear(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, nil)
	store.Save(testSession())

	store.Clear()

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.RefreshToken())
	assert.False(t, backend.Has(KeyAccessToken))
	assert.False(t, backend.Has(KeyRefreshToken))
	assert.False(t, backend.Has(KeyUser))
}

func TestStore_UpdateTokens(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend, nil)
	store.Save(testSession())

	t.Run("keeps refresh token when not rotated", func(t *testing.T) {
		store.UpdateTokens("access-2", "")
		assert.Equal(t, "access-2", store.AccessToken())
		assert.Equal(t, "refresh-1", store.RefreshToken())
		require.NotNil(t, store.User())
	})

	t.Run("stores rotated refresh token", func(t *testing.T) {
		store.UpdateTokens("access-3", "refresh-3")
		reloaded := NewStore(backend, nil)
		assert.Equal(t, "access-3", reloaded.AccessToken())
		assert.Equal(t, "refresh-3", reloaded.RefreshToken())
	})
}

func TestStore_StorageUnavailable(t *testing.T) {
	t.Run("broken backend degrades to logged out", func(t *testing.T) {
		store := NewStore(brokenBackend{}, zap.NewNop())
		assert.NotPanics(t, func() { store.Save(testSession()) })
		assert.False(t, store.IsAuthenticated())
		assert.NotPanics(t, store.Clear)
	})

	t.Run("nil backend never holds a session", func(t *testing.T) {
		store := NewStore(nil, nil)
		store.Save(testSession())
		assert.False(t, store.IsAuthenticated())
		_, _, ok := store.AuthHeader()
		assert.False(t, ok)
	})
}

func TestStore_CorruptUserProfile(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(KeyAccessToken, "access-1"))
	require.NoError(t, backend.Set(KeyUser, "{not json"))

	store := NewStore(backend, nil)
	assert.True(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
}

func TestStore_ExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	store := NewStore(NewMemoryBackend(), nil)
	_, ok := store.ExpiresAt()
	assert.False(t, ok)

	store.Save(Session{AccessToken: token})
	got, ok := store.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	store.Save(Session{AccessToken: "opaque"})
	_, ok = store.ExpiresAt()
	assert.False(t, ok)
	assert.True(t, store.IsAuthenticated(), "presence alone counts as logged in")
}
