package handler

import (
	"net/http"
	"strconv"
	"time"

	"go-gin-calendar/internal/calendar"
	"go-gin-calendar/internal/holiday"
	"go-gin-calendar/internal/model"
	"go-gin-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

// ViewDefaults apply when a view request omits the matching query parameter.
type ViewDefaults struct {
	WeekStart time.Weekday
	Location  *time.Location
	MaxPerDay int
	Country   string
	Now       func() time.Time
}

type ViewHandler struct {
	events   service.EventService
	holidays *HolidayHandler
	defaults ViewDefaults
}

// NewViewHandler wires the grid endpoint. holidays may be nil, in which case
// grids carry no holiday overlay.
func NewViewHandler(events service.EventService, holidays holiday.Service, defaults ViewDefaults) *ViewHandler {
	if defaults.Location == nil {
		defaults.Location = time.Local
	}
	if defaults.Now == nil {
		defaults.Now = time.Now
	}
	h := &ViewHandler{events: events, defaults: defaults}
	if holidays != nil {
		h.holidays = NewHolidayHandler(holidays, defaults.Country)
	}
	return h
}

func (h *ViewHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/views/:view", h.Get)
}

type ViewResponse struct {
	Title string         `json:"title"`
	Grid  *calendar.Grid `json:"grid"`
}

func (h *ViewHandler) Get(c *gin.Context) {
	view, err := calendar.ParseView(c.Param("view"))
	if err != nil {
		handleError(c, invalidInput("Unknown view", err), "GetView")
		return
	}
	opts, ok := h.options(c)
	if !ok {
		return
	}

	anchor := opts.Now().In(opts.Location)
	if raw := c.Query("date"); raw != "" {
		anchor, err = time.ParseInLocation(model.HolidayDateLayout, raw, opts.Location)
		if err != nil {
			handleError(c, invalidInput("Invalid date", err), "GetView")
			return
		}
	}

	// 未設定國家時不套用假日，畫面照常顯示
	var country string
	if h.holidays != nil && h.holidays.hasCountry(c) {
		if country, ok = h.holidays.country(c); !ok {
			return
		}
	}

	from, to, err := calendar.VisibleRange(view, anchor, opts)
	if err != nil {
		handleError(c, err, "VisibleRange")
		return
	}
	found, err := h.events.List(c, model.EventFilter{From: &from, To: &to})
	if err != nil {
		handleError(c, err, "ListForView")
		return
	}
	events := make([]model.Event, 0, len(found))
	for _, e := range found {
		events = append(events, *e)
	}

	if country != "" {
		for year := from.Year(); year <= to.Year(); year++ {
			opts.Holidays = append(opts.Holidays, h.holidays.lookup.Lookup(c, year, country)...)
		}
	}

	grid, err := calendar.Build(view, anchor, events, opts)
	if err != nil {
		handleError(c, err, "Build")
		return
	}
	c.JSON(http.StatusOK, ViewResponse{
		Title: calendar.Title(view, anchor, opts),
		Grid:  grid,
	})
}

// options merges query overrides (tz, weekStart, maxPerDay) into the
// configured defaults. It writes a 400 and returns false on a bad value.
func (h *ViewHandler) options(c *gin.Context) (calendar.Options, bool) {
	opts := calendar.Options{
		WeekStart: h.defaults.WeekStart,
		Location:  h.defaults.Location,
		MaxPerDay: h.defaults.MaxPerDay,
		Now:       h.defaults.Now,
	}
	if tz := c.Query("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			handleError(c, invalidInput("Invalid time zone", err), "GetView")
			return opts, false
		}
		opts.Location = loc
	}
	if raw := c.Query("weekStart"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 6 {
			handleError(c, invalidInput("weekStart must be 0-6", err), "GetView")
			return opts, false
		}
		opts.WeekStart = time.Weekday(n)
	}
	if raw := c.Query("maxPerDay"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handleError(c, invalidInput("maxPerDay must be a positive integer", err), "GetView")
			return opts, false
		}
		opts.MaxPerDay = n
	}
	opts.PadToSixWeeks = c.Query("pad") == "true"
	return opts, true
}
