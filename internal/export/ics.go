// Package export converts events to and from iCalendar (RFC 5545).
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
	"go-gin-calendar/pkg/logger"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ProductID   = "-//go-gin-calendar//calendar 1.0//EN"
	ContentType = "text/calendar; charset=utf-8"
)

var ErrEmptyCalendar = errors.New("empty ICS body")

// NewCalendar builds a VCALENDAR with one VEVENT per event. The event's _id
// is used as the UID; calctl import skips UIDs that already exist.
func NewCalendar(events []*model.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		ve := cal.AddEvent(e.EventID.String())
		ve.SetDtStampTime(e.UpdatedAt.UTC())
		ve.SetCreatedTime(e.CreatedAt.UTC())
		ve.SetModifiedAt(e.UpdatedAt.UTC())
		ve.SetStartAt(e.Start.UTC())
		ve.SetEndAt(e.End.UTC())
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Color != "" {
			ve.SetProperty(ical.ComponentPropertyColor, e.Color)
		}
	}
	return cal
}

// WriteICS serializes events to w.
func WriteICS(w io.Writer, events []*model.Event) error {
	return NewCalendar(events).SerializeTo(w)
}

// ParseICS reads VEVENTs into event drafts ready for the create flow. The
// server assigns ids and timestamps, so only title, description, interval
// and color are taken. Events without a usable DTSTART are skipped; a
// missing DTEND makes the event zero-duration.
func ParseICS(r io.Reader) ([]model.Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	vevents := cal.Events()
	if len(vevents) == 0 {
		return nil, ErrEmptyCalendar
	}

	log := logger.WithComponent("export")
	out := make([]model.Event, 0, len(vevents))
	for _, ve := range vevents {
		e, err := draftFromVEvent(ve)
		if err != nil {
			log.Warn("skipping vevent", zap.String("uid", ve.Id()), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	log.Info("ics parse completed", zap.Int("event_count", len(out)))
	return out, nil
}

func draftFromVEvent(ve *ical.VEvent) (model.Event, error) {
	var e model.Event

	start, err := ve.GetStartAt()
	if err != nil {
		return e, fmt.Errorf("dtstart: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	if id, err := uuid.Parse(ve.Id()); err == nil {
		e.EventID = id
	}
	e.Start = start.UTC()
	e.End = end.UTC()
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = unescape(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = unescape(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyColor); p != nil {
		e.Color = strings.TrimSpace(p.Value)
	}
	if e.Title == "" {
		return e, errors.New("missing SUMMARY")
	}
	return e, nil
}

var textUnescaper = strings.NewReplacer(`\,`, ",", `\;`, ";", `\n`, "\n", `\N`, "\n", `\\`, `\`)

func unescape(s string) string {
	return textUnescaper.Replace(s)
}

// Window formats a from/to pair for the export file name, e.g.
// "calendar-20250601-20250630.ics".
func Window(from, to *time.Time) string {
	name := "calendar"
	if from != nil {
		name += "-" + from.UTC().Format("20060102")
	}
	if to != nil {
		name += "-" + to.UTC().Format("20060102")
	}
	return name + ".ics"
}
