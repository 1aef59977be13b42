// Package session keeps the logged-in user's tokens and profile in durable
// client storage.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/balkashynov/feelog/internal/models"
)

// Fixed storage keys. Absence of the access token key is the only
// logged-out signal.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Backend is durable key/value storage for the session.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Session is the credential set of a logged-in user
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Store owns the current session. Storage failures are logged and never
// returned: a store that cannot persist behaves as logged out.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *zap.Logger
	current Session
}

// NewStore creates a store and loads any session persisted in backend.
// A nil backend means storage is disabled.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{backend: backend, logger: logger.Named("session")}
	s.load()
	return s
}

func (s *Store) load() {
	if s.backend == nil {
		return
	}

	access, ok, err := s.backend.Get(KeyAccessToken)
	if err != nil {
		s.logger.Warn("session storage unavailable", zap.Error(err))
		return
	}
	if !ok || access == "" {
		return
	}

	refresh, _, err := s.backend.Get(KeyRefreshToken)
	if err != nil {
		s.logger.Warn("failed to read refresh token", zap.Error(err))
		return
	}

	s.current = Session{AccessToken: access, RefreshToken: refresh}

	raw, ok, err := s.backend.Get(KeyUser)
	if err != nil || !ok {
		return
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("stored user profile is not valid JSON", zap.Error(err))
		return
	}
	s.current.User = &user
}

// Save persists the session, overwriting any previous one.
func (s *Store) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		s.current = Session{}
		return
	}

	if err := s.write(sess); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
		s.drop()
		return
	}
	s.current = sess
}

func (s *Store) write(sess Session) error {
	if err := s.backend.Set(KeyAccessToken, sess.AccessToken); err != nil {
		return err
	}
	if err := s.backend.Set(KeyRefreshToken, sess.RefreshToken); err != nil {
		return err
	}
	if sess.User == nil {
		return s.backend.Delete(KeyUser)
	}
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return s.backend.Set(KeyUser, string(raw))
}

// UpdateTokens replaces the access token after a refresh. An empty refresh
// token keeps the stored one.
func (s *Store) UpdateTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.AccessToken = access
	if refresh != "" {
		next.RefreshToken = refresh
	}

	if s.backend == nil {
		s.current = Session{}
		return
	}
	if err := s.backend.Set(KeyAccessToken, next.AccessToken); err != nil {
		s.logger.Warn("failed to persist refreshed access token", zap.Error(err))
		s.drop()
		return
	}
	if refresh != "" {
		if err := s.backend.Set(KeyRefreshToken, refresh); err != nil {
			s.logger.Warn("failed to persist rotated refresh token", zap.Error(err))
			s.drop()
			return
		}
	}
	s.current = next
}

// Clear removes tokens and profile (logout, or refresh failure)
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop()
}

// drop forgets the session in memory and, best effort, in storage.
// Callers hold mu.
func (s *Store) drop() {
	s.current = Session{}
	if s.backend == nil {
		return
	}
	if err := s.backend.Delete(KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		s.logger.Warn("failed to clear stored session", zap.Error(err))
	}
}

// IsAuthenticated reports whether an access token is present. It does not
// check expiry or signature.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken != ""
}

// AuthHeader returns the Authorization header for the current access token.
// ok is false when there is no token.
func (s *Store) AuthHeader() (name, value string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.AccessToken == "" {
		return "", "", false
	}
	return "Authorization", "Bearer " + s.current.AccessToken, true
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RefreshToken
}

// User returns a copy of the stored profile, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.User == nil {
		return nil
	}
	u := *s.current.User
	return &u
}

// Snapshot returns a copy of the whole session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.current
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// ExpiresAt decodes the exp claim of the access token without verifying it.
// It is informational only.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.AccessToken()
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
