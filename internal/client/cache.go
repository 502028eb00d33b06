package client

import (
	"context"
	"sync"
	"time"

	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/model"
	"go-gin-calendar/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Listener receives a snapshot of the cache after every change.
type Listener func(events []model.Event)

// EventCache mirrors the server's events for one session. Every write is
// reconciled to the server's response: created and updated records replace
// the local copy wholesale, so _id, createdAt and updatedAt are never
// guessed locally. A failed call leaves the cache untouched.
type EventCache struct {
	api EventAPI

	mu        sync.RWMutex
	events    []model.Event
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

func NewEventCache(api EventAPI) *EventCache {
	return &EventCache{
		api:       api,
		events:    make([]model.Event, 0),
		listeners: make(map[int]Listener),
	}
}

// Load fetches every event and replaces the cache.
func (c *EventCache) Load(ctx context.Context) error {
	events, err := c.api.List(ctx, model.EventFilter{})
	if err != nil {
		logger.WithComponent("client-cache").Error("Failed to load events", zap.Error(err))
		return err
	}
	calendar.SortByStart(events)

	c.mu.Lock()
	c.events = events
	c.loaded = true
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *EventCache) Create(ctx context.Context, draft EventDraft) (*model.Event, error) {
	created, err := c.api.Create(ctx, draft)
	if err != nil {
		logger.WithComponent("client-cache").Error("Failed to create event",
			zap.String("title", draft.Title), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.events = append(c.events, *created)
	calendar.SortByStart(c.events)
	c.mu.Unlock()

	c.notify()
	return created, nil
}

func (c *EventCache) Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error) {
	updated, err := c.api.Update(ctx, id, patch)
	if err != nil {
		logger.WithComponent("client-cache").Error("Failed to update event",
			zap.String("event_id", id.String()), zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	if i := c.indexOf(updated.EventID); i >= 0 {
		c.events[i] = *updated
	} else {
		c.events = append(c.events, *updated)
	}
	calendar.SortByStart(c.events)
	c.mu.Unlock()

	c.notify()
	return updated, nil
}

func (c *EventCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.api.Delete(ctx, id); err != nil {
		logger.WithComponent("client-cache").Error("Failed to delete event",
			zap.String("event_id", id.String()), zap.Error(err))
		return err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.events = append(c.events[:i:i], c.events[i+1:]...)
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

// indexOf must be called with mu held.
func (c *EventCache) indexOf(id uuid.UUID) int {
	for i := range c.events {
		if c.events[i].EventID == id {
			return i
		}
	}
	return -1
}

// Loaded reports whether Load has succeeded at least once.
func (c *EventCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Events returns a copy of every cached event ordered by start.
func (c *EventCache) Events() []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Event, len(c.events))
	copy(out, c.events)
	return out
}

// Range applies the overlap rule locally.
func (c *EventCache) Range(from, to *time.Time) []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return calendar.FilterRange(c.events, from, to)
}

func (c *EventCache) Get(id uuid.UUID) (model.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.events[i], true
	}
	return model.Event{}, false
}

// Subscribe registers fn and returns a function that removes it.
func (c *EventCache) Subscribe(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *EventCache) notify() {
	c.mu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	snapshot := c.Events()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
