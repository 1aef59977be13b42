// Package apitest runs an in-memory journal backend for tests. It speaks the
// same REST contract as the production API: bearer JWT access tokens, opaque
// refresh tokens, one record per user per date.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/balkashynov/feelog/internal/models"
)

type account struct {
	user         models.User
	passwordHash []byte
}

type claims struct {
	Generation int `json:"gen"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	srv    *httptest.Server
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account // by email
	refreshTokens map[string]int64    // token -> user id
	records       map[int64][]*models.EmotionRecord
	nextUserID    int64
	nextRecordID  int64
	generation    int
	accessTTL     time.Duration
	rotateRefresh bool
	hits          map[string]int
	lastAuth      map[string]string
	faults        map[string][]int // "METHOD /path" -> statuses to answer with next
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:        []byte("apitest-secret-" + uuid.NewString()),
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]int64),
		records:       make(map[int64][]*models.EmotionRecord),
		accessTTL:     15 * time.Minute,
		hits:          make(map[string]int),
		lastAuth:      make(map[string]string),
		faults:        make(map[string][]int),
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API root to hand to api.Options.BaseURL.
func (s *Server) URL() string { return s.srv.URL + "/api" }

// Close stops the server early, e.g. to simulate an unreachable backend.
func (s *Server) Close() { s.srv.Close() }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countHits)
	r.Use(s.injectFaults)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/users/me", s.handleMe)
			r.Get("/records", s.handleListRecords)
			r.Post("/records", s.handleCreateRecord)
			r.Get("/records/search", s.handleSearchRecords)
			r.Get("/records/date/{date}", s.handleRecordByDate)
			r.Put("/records/{id}", s.handleUpdateRecord)
			r.Delete("/records/{id}", s.handleDeleteRecord)
			r.Get("/calendar/{year}/{month}", s.handleCalendar)
		})
	})
	return r
}

// countHits records "METHOD /route/pattern" after routing resolved it.
func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		key := r.Method + " " + pattern
		s.mu.Lock()
		s.hits[key]++
		s.lastAuth[key] = r.Header.Get("Authorization")
		s.mu.Unlock()
	})
}

// injectFaults answers with a queued failure status before the route runs.
func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		queued := s.faults[key]
		status := 0
		if len(queued) > 0 {
			status = queued[0]
			s.faults[key] = queued[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailNext makes the next request to the concrete path, e.g.
// FailNext("GET", "/api/records/date/2024-03-10", 500), fail with status.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.faults[key] = append(s.faults[key], status)
}

// Hits returns how many requests hit the route, e.g. Hits("GET /api/records").
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits counts every request served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

// LastAuthorization returns the Authorization header of the last request on route.
func (s *Server) LastAuthorization(route string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth[route]
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, name, password string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccountLocked(email, name, hash)
}

func (s *Server) addAccountLocked(email, name string, hash []byte) models.User {
	s.nextUserID++
	acc := &account{
		user:         models.User{ID: s.nextUserID, Email: email, Name: name, Role: "USER"},
		passwordHash: hash,
	}
	s.accounts[strings.ToLower(email)] = acc
	return acc.user
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// RevokeRefreshTokens forgets every refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	s.refreshTokens = make(map[string]int64)
	s.mu.Unlock()
}

// SetRotateRefresh makes the refresh endpoint issue a new refresh token.
func (s *Server) SetRotateRefresh(rotate bool) {
	s.mu.Lock()
	s.rotateRefresh = rotate
	s.mu.Unlock()
}

// Records returns a copy of the records stored for userID.
func (s *Server) Records(userID int64) []models.EmotionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EmotionRecord, 0, len(s.records[userID]))
	for _, r := range s.records[userID] {
		out = append(out, *r)
	}
	return out
}

// Seed stores records for userID as if they had been created through the API.
func (s *Server) Seed(userID int64, reqs ...models.RecordRequest) []models.EmotionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EmotionRecord
	for _, req := range reqs {
		out = append(out, *s.insertLocked(userID, req))
	}
	return out
}

func (s *Server) insertLocked(userID int64, req models.RecordRequest) *models.EmotionRecord {
	s.nextRecordID++
	now := time.Now().UTC().Format(time.RFC3339)
	rec := &models.EmotionRecord{
		ID:        s.nextRecordID,
		Date:      req.Date,
		Grateful:  req.Grateful,
		Sad:       req.Sad,
		Angry:     req.Angry,
		Notes:     req.Notes,
		Mood:      req.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[userID] = append(s.records[userID], rec)
	return rec
}

// AccessToken mints a valid access token for userID.
func (s *Server) AccessToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mintLocked(userID)
}

func (s *Server) mintLocked(userID int64) string {
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Generation: s.generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) newRefreshLocked(userID int64) string {
	token := uuid.NewString()
	s.refreshTokens[token] = userID
	return token
}

// requireToken verifies the bearer token and stores the user id in the context.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		var c claims
		_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
			return s.secret, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		s.mu.Lock()
		stale := c.Generation != s.generation
		s.mu.Unlock()
		if stale {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}

		userID, err := strconv.ParseInt(c.Subject, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userIDFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKey{}).(int64)
	return id
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Total   *int   `json:"total,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}
