package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
)

type fakeAuth bool

func (a fakeAuth) IsAuthenticated() bool { return bool(a) }

// fakeAPI answers from fixed results and counts calls.
type fakeAPI struct {
	calls int

	list     []models.EmotionRecord
	byDate   map[string]*models.EmotionRecord
	nextID   int64
	failWith error
	deleted  map[int64]bool
}

func (f *fakeAPI) ListRecords(ctx context.Context, limit, offset int) ([]models.EmotionRecord, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.EmotionRecord, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeAPI) RecordByDate(ctx context.Context, date string) (*models.EmotionRecord, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byDate[date], nil
}

func (f *fakeAPI) CreateRecord(ctx context.Context, req models.RecordRequest) (*models.EmotionRecord, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.nextID++
	return toRecord(f.nextID, req), nil
}

func (f *fakeAPI) UpdateRecord(ctx context.Context, id int64, req models.RecordRequest) (*models.EmotionRecord, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return toRecord(id, req), nil
}

func (f *fakeAPI) DeleteRecord(ctx context.Context, id int64) error {
	f.calls++
	if f.failWith != nil {
		return f.failWith
	}
	if f.deleted == nil {
		f.deleted = make(map[int64]bool)
	}
	if f.deleted[id] {
		return &api.Error{Kind: api.ErrNotFound, Status: 404}
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeAPI) SearchRecords(ctx context.Context, params api.SearchParams) ([]models.EmotionRecord, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return journal.Filter(f.list, params.Query), nil
}

func toRecord(id int64, req models.RecordRequest) *models.EmotionRecord {
	return &models.EmotionRecord{
		ID: id, Date: req.Date, Mood: req.Mood,
		Grateful: req.Grateful, Sad: req.Sad, Angry: req.Angry, Notes: req.Notes,
	}
}

func newCache(t *testing.T, f *fakeAPI, loggedIn bool) *Cache {
	return NewCache(f, fakeAuth(loggedIn), zaptest.NewLogger(t))
}

func TestFetchAll(t *testing.T) {
	ctx := context.Background()

	t.Run("logged out empties the cache without a request", func(t *testing.T) {
		f := &fakeAPI{list: []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}}
		c := newCache(t, f, false)
		c.records = []models.EmotionRecord{{ID: 9, Date: "2024-01-01"}}

		got, err := c.FetchAll(ctx, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, c.Len())
		assert.Zero(t, f.calls)
	})

	t.Run("sorts newest first and drops duplicate dates", func(t *testing.T) {
		f := &fakeAPI{list: []models.EmotionRecord{
			{ID: 1, Date: "2024-01-05"},
			{ID: 2, Date: "2024-03-01"},
			{ID: 3, Date: "2024-02-10"},
			{ID: 4, Date: "2024-03-01"},
		}}
		c := newCache(t, f, true)

		got, err := c.FetchAll(ctx, 50, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "2024-03-01", got[0].Date)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, "2024-02-10", got[1].Date)
		assert.Equal(t, "2024-01-05", got[2].Date)
	})

	t.Run("error keeps the previous contents", func(t *testing.T) {
		f := &fakeAPI{failWith: &api.Error{Kind: api.ErrServerFault, Status: 500}}
		c := newCache(t, f, true)
		c.records = []models.EmotionRecord{{ID: 9, Date: "2024-01-01"}}

		_, err := c.FetchAll(ctx, 50, 0)
		assert.ErrorIs(t, err, api.ErrServerFault)
		assert.Equal(t, 1, c.Len())
	})
}

func TestGetByDate(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f := &fakeAPI{byDate: map[string]*models.EmotionRecord{"2024-03-01": {ID: 7, Date: "2024-03-01"}}}
		rec, ok := newCache(t, f, true).GetByDate(ctx, "2024-03-01")
		require.True(t, ok)
		assert.Equal(t, int64(7), rec.ID)
	})

	t.Run("absent", func(t *testing.T) {
		rec, ok := newCache(t, &fakeAPI{}, true).GetByDate(ctx, "2024-03-01")
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("errors read as absent", func(t *testing.T) {
		f := &fakeAPI{failWith: &api.Error{Kind: api.ErrUnreachable}}
		rec, ok := newCache(t, f, true).GetByDate(ctx, "2024-03-01")
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("always asks the server", func(t *testing.T) {
		f := &fakeAPI{}
		c := newCache(t, f, true)
		c.records = []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}
		_, ok := c.GetByDate(ctx, "2024-03-01")
		assert.False(t, ok)
		assert.Equal(t, 1, f.calls)
	})
}

func TestMutationsRequireLogin(t *testing.T) {
	ctx := context.Background()
	f := &fakeAPI{}
	c := newCache(t, f, false)
	req := models.RecordRequest{Date: "2024-03-01", Mood: 3, Notes: "x"}

	_, err := c.Create(ctx, req)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.Update(ctx, 1, req)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, c.Delete(ctx, 1), ErrNotAuthenticated)
	_, _, err = c.Save(ctx, req)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.Search(ctx, api.SearchParams{Query: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, f.calls)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := &fakeAPI{nextID: 10}
	c := newCache(t, f, true)
	c.records = []models.EmotionRecord{
		{ID: 1, Date: "2024-02-01"},
		{ID: 2, Date: "2024-03-01", Mood: 1},
	}

	rec, err := c.Create(ctx, models.RecordRequest{Date: "2024-03-01", Mood: 4, Grateful: "sunshine"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), rec.ID)

	got := c.Records()
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assertOnePerDate(t, got)
}

func TestCreateFailureLeavesCache(t *testing.T) {
	f := &fakeAPI{failWith: &api.Error{Kind: api.ErrValidation, Status: 409, Message: "duplicate"}}
	c := newCache(t, f, true)
	c.records = []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}

	_, err := c.Create(context.Background(), models.RecordRequest{Date: "2024-03-01", Mood: 3, Notes: "x"})
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}, c.Records())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces in place", func(t *testing.T) {
		c := newCache(t, &fakeAPI{}, true)
		c.records = []models.EmotionRecord{
			{ID: 3, Date: "2024-03-03"},
			{ID: 2, Date: "2024-03-02", Mood: 4},
			{ID: 1, Date: "2024-03-01"},
		}

		_, err := c.Update(ctx, 2, models.RecordRequest{Date: "2024-03-02", Mood: 2, Notes: "x"})
		require.NoError(t, err)
		got := c.Records()
		require.Len(t, got, 3)
		assert.Equal(t, int64(2), got[1].ID)
		assert.Equal(t, 2, got[1].Mood)
	})

	t.Run("moving to a taken date evicts the stale entry", func(t *testing.T) {
		c := newCache(t, &fakeAPI{}, true)
		c.records = []models.EmotionRecord{
			{ID: 2, Date: "2024-03-02"},
			{ID: 1, Date: "2024-03-01"},
		}

		_, err := c.Update(ctx, 2, models.RecordRequest{Date: "2024-03-01", Mood: 3, Notes: "x"})
		require.NoError(t, err)
		got := c.Records()
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
		assert.Equal(t, "2024-03-01", got[0].Date)
	})

	t.Run("unknown id is added", func(t *testing.T) {
		c := newCache(t, &fakeAPI{}, true)
		c.records = []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}

		_, err := c.Update(ctx, 5, models.RecordRequest{Date: "2024-03-05", Mood: 3, Notes: "x"})
		require.NoError(t, err)
		got := c.Records()
		require.Len(t, got, 2)
		assert.Equal(t, int64(5), got[0].ID)
	})
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, &fakeAPI{}, true)
	c.records = []models.EmotionRecord{
		{ID: 1, Date: "2024-03-01"},
		{ID: 2, Date: "2024-03-02"},
	}

	require.NoError(t, c.Delete(ctx, 1))
	err := c.Delete(ctx, 1)
	assert.ErrorIs(t, err, api.ErrNotFound)

	got := c.Records()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty entry before any request", func(t *testing.T) {
		f := &fakeAPI{}
		_, _, err := newCache(t, f, true).Save(ctx, models.RecordRequest{Date: "2024-03-01", Mood: 3})
		assert.ErrorIs(t, err, journal.ErrEmptyEntry)
		assert.Zero(t, f.calls)
	})

	t.Run("creates when the date is free", func(t *testing.T) {
		f := &fakeAPI{}
		rec, created, err := newCache(t, f, true).Save(ctx, models.RecordRequest{Date: "2024-03-01", Notes: "x"})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, journal.DefaultMood, rec.Mood)
	})

	t.Run("updates the record already on that date", func(t *testing.T) {
		f := &fakeAPI{byDate: map[string]*models.EmotionRecord{"2024-03-01": {ID: 42, Date: "2024-03-01"}}}
		rec, created, err := newCache(t, f, true).Save(ctx, models.RecordRequest{Date: "2024-03-01", Mood: 5, Notes: "x"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(42), rec.ID)
	})

	t.Run("surfaces errors", func(t *testing.T) {
		boom := errors.New("boom")
		f := &fakeAPI{failWith: boom}
		_, created, err := newCache(t, f, true).Save(ctx, models.RecordRequest{Date: "2024-03-01", Mood: 5, Notes: "x"})
		assert.ErrorIs(t, err, boom)
		assert.False(t, created)
	})
}

func TestLookup(t *testing.T) {
	c := newCache(t, &fakeAPI{}, true)
	c.records = []models.EmotionRecord{{ID: 1, Date: "2024-03-01"}}

	rec, ok := c.Lookup("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, int64(1), rec.ID)
	_, ok = c.Lookup("2024-03-02")
	assert.False(t, ok)
}

func assertOnePerDate(t *testing.T, recs []models.EmotionRecord) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range recs {
		assert.False(t, seen[r.Date], "two records for %s", r.Date)
		seen[r.Date] = true
	}
}
