package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/balkashynov/feelog/internal/session"
)

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(session.NewMemoryBackend(), zap.NewNop())
}

func newTestClient(t *testing.T, baseURL string, store *session.Store) *Client {
	t.Helper()
	c, err := NewClient(store, Options{BaseURL: baseURL, Timeout: 2 * time.Second, Logger: zap.NewNop()})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("requires a token store", func(t *testing.T) {
		_, err := NewClient(nil, Options{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewClient(newStore(t), Options{})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
		assert.Equal(t, DefaultTimeout, c.timeout)
		assert.Nil(t, c.limiter)
	})

	t.Run("rejects a relative base URL", func(t *testing.T) {
		_, err := NewClient(newStore(t), Options{BaseURL: "not a url"})
		assert.Error(t, err)
	})

	t.Run("builds a limiter when rate limited", func(t *testing.T) {
		c, err := NewClient(newStore(t), Options{BaseURL: "http://localhost/api/", RateLimit: 5})
		require.NoError(t, err)
		assert.NotNil(t, c.limiter)
		assert.Equal(t, "http://localhost/api", c.BaseURL())
	})
}

func TestClient_Classify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"success":true,"data":{"value":42}}`))
	})
	mux.HandleFunc("/api/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("pong"))
	})
	mux.HandleFunc("/api/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/api/invalid", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"mood must be between 1 and 5"}`))
	})
	mux.HandleFunc("/api/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/api/rejected", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"duplicate date"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api", newStore(t))
	ctx := context.Background()

	t.Run("2xx JSON", func(t *testing.T) {
		resp, err := c.Do(ctx, Request{Path: "/json"})
		require.NoError(t, err)
		assert.True(t, resp.JSON)
		out, err := decodeData[struct{ Value int }](resp)
		require.NoError(t, err)
		assert.Equal(t, 42, out.Value)
	})

	t.Run("2xx text", func(t *testing.T) {
		resp, err := c.Do(ctx, Request{Path: "/text"})
		require.NoError(t, err)
		assert.False(t, resp.JSON)
		assert.Equal(t, "pong", resp.Text())
	})

	t.Run("2xx empty body is a success marker", func(t *testing.T) {
		resp, err := c.Do(ctx, Request{Path: "/empty"})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text())
	})

	t.Run("404 is not an error", func(t *testing.T) {
		resp, err := c.Do(ctx, Request{Path: "/missing"})
		require.NoError(t, err)
		assert.True(t, resp.NotFound)
	})

	t.Run("4xx carries the server message", func(t *testing.T) {
		_, err := c.Do(ctx, Request{Path: "/invalid"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, http.StatusBadRequest, StatusCode(err))
		assert.Equal(t, "mood must be between 1 and 5", Describe(err))
	})

	t.Run("5xx without body gets a generic message", func(t *testing.T) {
		_, err := c.Do(ctx, Request{Path: "/boom"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrServerFault)
		assert.Contains(t, err.Error(), "HTTP 502")
	})

	t.Run("envelope with success false is rejected", func(t *testing.T) {
		resp, err := c.Do(ctx, Request{Path: "/rejected"})
		require.NoError(t, err)
		_, err = decodeData[map[string]any](resp)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "duplicate date")
	})
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := newStore(t)
	store.Save(session.Session{AccessToken: "tok-1", RefreshToken: "ref-1"})
	c := newTestClient(t, srv.URL, store)

	_, err := c.Do(context.Background(), Request{Path: "/x", Header: http.Header{"X-Client": {"cli"}}})
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "cli", got.Get("X-Client"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))

	_, err = c.Do(context.Background(), Request{Path: "/x", Anonymous: true})
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, newStore(t))
	start := time.Now()
	_, err := c.Do(context.Background(), Request{Path: "/slow", Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, newStore(t))
	_, err := c.Do(context.Background(), Request{Path: "/x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, Describe(err), "cannot reach the server")
}

// TestClient_PersistentUnauthorized checks the retry cap: a server that keeps
// answering 401 even after a successful refresh sees exactly one retry.
func TestClient_PersistentUnauthorized(t *testing.T) {
	var protected, refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"tok-2"}`))
	})
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		protected.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newStore(t)
	store.Save(session.Session{AccessToken: "tok-1", RefreshToken: "ref-1"})
	c := newTestClient(t, srv.URL, store)

	_, err := c.Do(context.Background(), Request{Path: "/records"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.EqualValues(t, 2, protected.Load())
	assert.EqualValues(t, 1, refreshes.Load())
	assert.False(t, store.IsAuthenticated())
}

func TestClient_UnauthorizedWithoutRefreshToken(t *testing.T) {
	var refreshes atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
	})
	mux.HandleFunc("/records", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := newStore(t)
	store.Save(session.Session{AccessToken: "tok-1"})
	c := newTestClient(t, srv.URL, store)

	_, err := c.Do(context.Background(), Request{Path: "/records"})
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Zero(t, refreshes.Load())
	assert.False(t, store.IsAuthenticated())
	assert.Contains(t, Describe(err), "feelog login")
}
