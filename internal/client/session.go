package client

import (
	"context"
	"sync"
	"time"

	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/model"
	"go-gin-calendar/pkg/logger"

	"go.uber.org/zap"
)

// Session owns the state a calendar screen works from: the event cache, the
// current view and anchor, the holiday overlay and the drag selection.
// Navigation goes through its methods only.
type Session struct {
	Cache *EventCache

	holidays HolidayAPI
	country  string

	mu     sync.Mutex
	view   calendar.View
	anchor time.Time
	opts   calendar.Options
	drag   *calendar.DragSelection
}

func NewSession(cache *EventCache, opts calendar.Options) *Session {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return &Session{
		Cache:  cache,
		view:   calendar.ViewMonth,
		anchor: calendar.StartOfDay(now(), opts.Location),
		opts:   opts,
		drag:   calendar.NewDragSelection(opts.Location),
	}
}

// WithHolidays enables the holiday overlay for country.
func (s *Session) WithHolidays(api HolidayAPI, country string) *Session {
	s.holidays = api
	s.country = country
	return s
}

func (s *Session) View() calendar.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Anchor() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.anchor
}

func (s *Session) SetView(v calendar.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Session) GoTo(day time.Time) {
	s.mu.Lock()
	s.anchor = calendar.StartOfDay(day, s.opts.Location)
	s.mu.Unlock()
}

func (s *Session) Next() { s.shift(1) }

func (s *Session) Prev() { s.shift(-1) }

func (s *Session) Today() {
	s.mu.Lock()
	s.anchor = calendar.Today(s.opts)
	s.mu.Unlock()
}

func (s *Session) shift(n int) {
	s.mu.Lock()
	s.anchor = calendar.Shift(s.view, s.anchor, n, s.opts.Location)
	s.mu.Unlock()
}

func (s *Session) Drag() *calendar.DragSelection {
	return s.drag
}

func (s *Session) Options() calendar.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Title is the heading of the current view.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.Title(s.view, s.anchor, s.opts)
}

// Grid builds the current view from cached events. Holiday lookups that
// fail are logged and the grid is drawn without them.
func (s *Session) Grid(ctx context.Context) (*calendar.Grid, error) {
	s.mu.Lock()
	view, anchor, opts := s.view, s.anchor, s.opts
	s.mu.Unlock()

	from, to, err := calendar.VisibleRange(view, anchor, opts)
	if err != nil {
		return nil, err
	}
	opts.Holidays = s.lookupHolidays(ctx, from.Year(), to.Year())
	return calendar.Build(view, anchor, s.Cache.Range(&from, &to), opts)
}

func (s *Session) lookupHolidays(ctx context.Context, firstYear, lastYear int) []model.Holiday {
	if s.holidays == nil {
		return nil
	}
	out := make([]model.Holiday, 0)
	for year := firstYear; year <= lastYear; year++ {
		holidays, err := s.holidays.Holidays(ctx, year, s.country)
		if err != nil {
			logger.WithComponent("client-cache").Warn("Holiday lookup failed",
				zap.Int("year", year), zap.String("country", s.country), zap.Error(err))
			continue
		}
		out = append(out, holidays...)
	}
	return out
}
