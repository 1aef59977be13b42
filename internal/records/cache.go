// Package records keeps the in-memory mirror of the user's journal entries.
// The cache only ever reflects responses the server has confirmed.
package records

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
)

// ErrNotAuthenticated is returned by mutations attempted while logged out.
var ErrNotAuthenticated = errors.New("not logged in")

// RecordAPI is the slice of the API client the cache uses.
type RecordAPI interface {
	ListRecords(ctx context.Context, limit, offset int) ([]models.EmotionRecord, error)
	RecordByDate(ctx context.Context, date string) (*models.EmotionRecord, error)
	CreateRecord(ctx context.Context, req models.RecordRequest) (*models.EmotionRecord, error)
	UpdateRecord(ctx context.Context, id int64, req models.RecordRequest) (*models.EmotionRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
	SearchRecords(ctx context.Context, params api.SearchParams) ([]models.EmotionRecord, error)
}

// AuthState reports whether a session is present.
type AuthState interface {
	IsAuthenticated() bool
}

// Cache holds at most one record per date.
type Cache struct {
	api    RecordAPI
	auth   AuthState
	logger *zap.Logger

	mu      sync.Mutex
	records []models.EmotionRecord
}

// NewCache creates an empty cache.
func NewCache(client RecordAPI, auth AuthState, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{api: client, auth: auth, logger: logger.Named("records")}
}

// FetchAll replaces the cache with one page from the server, newest first.
// While logged out it empties the cache without touching the network.
func (c *Cache) FetchAll(ctx context.Context, limit, offset int) ([]models.EmotionRecord, error) {
	if !c.auth.IsAuthenticated() {
		c.replace(nil)
		return nil, nil
	}

	fetched, err := c.api.ListRecords(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	journal.SortByDate(fetched, false)
	seen := make(map[string]bool, len(fetched))
	unique := make([]models.EmotionRecord, 0, len(fetched))
	for _, r := range fetched {
		if seen[r.Date] {
			c.logger.Warn("server returned two records for one date",
				zap.String("date", r.Date), zap.Int64("dropped_id", r.ID))
			continue
		}
		seen[r.Date] = true
		unique = append(unique, r)
	}

	c.replace(unique)
	return c.Records(), nil
}

// GetByDate asks the server for the record of date. Absence and failures
// both read as no record.
func (c *Cache) GetByDate(ctx context.Context, date string) (*models.EmotionRecord, bool) {
	rec, err := c.api.RecordByDate(ctx, date)
	if err != nil {
		c.logger.Debug("lookup by date failed", zap.String("date", date), zap.Error(err))
		return nil, false
	}
	if rec == nil {
		return nil, false
	}
	return rec, true
}

// Create stores a new record and caches the server's copy in place of any
// entry for the same date.
func (c *Cache) Create(ctx context.Context, req models.RecordRequest) (*models.EmotionRecord, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	created, err := c.api.CreateRecord(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append([]models.EmotionRecord{*created}, c.withoutLocked(func(r models.EmotionRecord) bool {
		return r.Date == created.Date
	})...)
	return created, nil
}

// Update replaces record id. The returned record takes the cached entry's
// place and evicts any other entry that shares its date.
func (c *Cache) Update(ctx context.Context, id int64, req models.RecordRequest) (*models.EmotionRecord, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	updated, err := c.api.UpdateRecord(ctx, id, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	replaced := false
	out := make([]models.EmotionRecord, 0, len(c.records)+1)
	for _, r := range c.records {
		switch {
		case r.ID == id || r.ID == updated.ID:
			if !replaced {
				out = append(out, *updated)
				replaced = true
			}
		case r.Date == updated.Date:
			// stale entry for the same day
		default:
			out = append(out, r)
		}
	}
	if !replaced {
		out = append([]models.EmotionRecord{*updated}, out...)
	}
	c.records = out
	return updated, nil
}

// Delete removes record id once the server confirms. An id the server does
// not know returns api.ErrNotFound and leaves the cache alone.
func (c *Cache) Delete(ctx context.Context, id int64) error {
	if !c.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := c.api.DeleteRecord(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = c.withoutLocked(func(r models.EmotionRecord) bool { return r.ID == id })
	return nil
}

// Save writes the entry for req.Date, updating the existing record when the
// server has one and creating it otherwise. It reports whether it created.
func (c *Cache) Save(ctx context.Context, req models.RecordRequest) (*models.EmotionRecord, bool, error) {
	if err := journal.Validate(&req); err != nil {
		return nil, false, err
	}
	if !c.auth.IsAuthenticated() {
		return nil, false, ErrNotAuthenticated
	}

	// A failed lookup falls through to Create; the server's one-entry-per-date
	// rule rejects it if the day already exists.
	if existing, ok := c.GetByDate(ctx, req.Date); ok {
		rec, err := c.Update(ctx, existing.ID, req)
		return rec, false, err
	}
	rec, err := c.Create(ctx, req)
	return rec, err == nil, err
}

// Search queries the server. Results are not cached.
func (c *Cache) Search(ctx context.Context, params api.SearchParams) ([]models.EmotionRecord, error) {
	if !c.auth.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	found, err := c.api.SearchRecords(ctx, params)
	if err != nil {
		return nil, err
	}
	journal.SortByDate(found, false)
	return found, nil
}

// Records returns a copy of the cached records.
func (c *Cache) Records() []models.EmotionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.EmotionRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Lookup returns the cached record of date without a network call.
func (c *Cache) Lookup(date string) (models.EmotionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.Date == date {
			return r, true
		}
	}
	return models.EmotionRecord{}, false
}

// Len is the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *Cache) replace(recs []models.EmotionRecord) {
	c.mu.Lock()
	c.records = recs
	c.mu.Unlock()
}

func (c *Cache) withoutLocked(drop func(models.EmotionRecord) bool) []models.EmotionRecord {
	out := make([]models.EmotionRecord, 0, len(c.records))
	for _, r := range c.records {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}
