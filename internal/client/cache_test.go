package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory server that stamps ids and timestamps the way the
// real one does.
type fakeAPI struct {
	mu     sync.Mutex
	events []model.Event
	err    error
	now    time.Time
}

func newFakeAPI(events ...model.Event) *fakeAPI {
	return &fakeAPI{events: events, now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeAPI) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Event, 0, len(f.events))
	for i := range f.events {
		if f.events[i].Overlaps(filter.From, filter.To) {
			out = append(out, f.events[i])
		}
	}
	return out, nil
}

func (f *fakeAPI) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].EventID == id {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (f *fakeAPI) Create(ctx context.Context, draft EventDraft) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.now = f.now.Add(time.Minute)
	e := model.Event{
		EventID:     uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
		Color:       draft.Color,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	}
	if e.Color == "" {
		e.Color = model.DefaultColor
	}
	f.events = append(f.events, e)
	return &e, nil
}

func (f *fakeAPI) Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].EventID != id {
			continue
		}
		f.now = f.now.Add(time.Minute)
		params := model.UpdateEventParams{
			Title: patch.Title, Description: patch.Description,
			Start: patch.Start, End: patch.End, Color: patch.Color,
		}
		f.events[i] = params.Apply(f.events[i])
		f.events[i].UpdatedAt = f.now
		e := f.events[i]
		return &e, nil
	}
	return nil, apperrors.ErrEventNotFound
}

func (f *fakeAPI) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.events {
		if f.events[i].EventID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrEventNotFound
}

func at(day, hour int) time.Time {
	return time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC)
}

func stored(title string, start, end time.Time) model.Event {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return model.Event{
		EventID: uuid.New(), Title: title, Start: start, End: end,
		Color: model.DefaultColor, CreatedAt: created, UpdatedAt: created,
	}
}

func TestEventCache_Load(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(stored("late", at(5, 9), at(5, 10)), stored("early", at(2, 9), at(2, 10)))
	cache := NewEventCache(api)

	require.False(t, cache.Loaded())
	require.NoError(t, cache.Load(ctx))
	assert.True(t, cache.Loaded())

	events := cache.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "early", events[0].Title)

	// a second load replaces rather than merges
	api.events = []model.Event{stored("only", at(3, 9), at(3, 10))}
	require.NoError(t, cache.Load(ctx))
	assert.Len(t, cache.Events(), 1)
	assert.Equal(t, "only", cache.Events()[0].Title)
}

func TestEventCache_CreateReconcilesToServer(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	cache := NewEventCache(api)

	var snapshots [][]model.Event
	cache.Subscribe(func(events []model.Event) { snapshots = append(snapshots, events) })

	created, err := cache.Create(ctx, EventDraft{Title: "Standup", Start: at(2, 9), End: at(2, 10)})

	require.NoError(t, err)
	cached, ok := cache.Get(created.EventID)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, cached.EventID)
	assert.Equal(t, model.DefaultColor, cached.Color)
	assert.Equal(t, created.CreatedAt, cached.CreatedAt)
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0], 1)
}

func TestEventCache_Update(t *testing.T) {
	ctx := context.Background()
	ev := stored("Standup", at(2, 9), at(2, 10))
	api := newFakeAPI(ev)
	cache := NewEventCache(api)
	require.NoError(t, cache.Load(ctx))

	color := "#ff5722"
	updated, err := cache.Update(ctx, ev.EventID, EventPatch{Color: &color})

	require.NoError(t, err)
	cached, ok := cache.Get(ev.EventID)
	require.True(t, ok)
	assert.Equal(t, color, cached.Color)
	assert.Equal(t, ev.Title, cached.Title)
	assert.True(t, ev.Start.Equal(cached.Start))
	assert.True(t, cached.UpdatedAt.After(ev.UpdatedAt))
	assert.Equal(t, updated.UpdatedAt, cached.UpdatedAt)
	assert.Len(t, cache.Events(), 1)
}

func TestEventCache_Delete(t *testing.T) {
	ctx := context.Background()
	keep := stored("keep", at(2, 9), at(2, 10))
	drop := stored("drop", at(3, 9), at(3, 10))
	cache := NewEventCache(newFakeAPI(keep, drop))
	require.NoError(t, cache.Load(ctx))

	require.NoError(t, cache.Delete(ctx, drop.EventID))

	_, ok := cache.Get(drop.EventID)
	assert.False(t, ok)
	assert.Len(t, cache.Events(), 1)
}

func TestEventCache_FailureLeavesCacheUnchanged(t *testing.T) {
	ctx := context.Background()
	ev := stored("Standup", at(2, 9), at(2, 10))
	api := newFakeAPI(ev)
	cache := NewEventCache(api)
	require.NoError(t, cache.Load(ctx))

	notified := 0
	cache.Subscribe(func([]model.Event) { notified++ })
	before := cache.Events()

	api.err = errors.New("connection refused")
	title := "changed"
	_, err := cache.Create(ctx, EventDraft{Title: "x", Start: at(4, 9), End: at(4, 10)})
	assert.Error(t, err)
	_, err = cache.Update(ctx, ev.EventID, EventPatch{Title: &title})
	assert.Error(t, err)
	assert.Error(t, cache.Delete(ctx, ev.EventID))
	assert.Error(t, cache.Load(ctx))

	assert.Equal(t, before, cache.Events())
	assert.Equal(t, 0, notified)

	api.err = nil
	assert.ErrorIs(t, cache.Delete(ctx, uuid.New()), apperrors.ErrEventNotFound)
	assert.Len(t, cache.Events(), 1)
}

func TestEventCache_RangeAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	cache := NewEventCache(newFakeAPI(
		stored("standup", at(2, 9), at(2, 9)),
		stored("trip", at(1, 0), at(3, 0)),
		stored("later", at(10, 9), at(10, 10)),
	))

	notified := 0
	unsubscribe := cache.Subscribe(func([]model.Event) { notified++ })
	require.NoError(t, cache.Load(ctx))
	unsubscribe()
	require.NoError(t, cache.Load(ctx))
	assert.Equal(t, 1, notified)

	from, to := at(2, 0), at(2, 23)
	got := cache.Range(&from, &to)
	require.Len(t, got, 2)
	assert.Equal(t, "trip", got[0].Title)
	assert.Equal(t, "standup", got[1].Title)
}
