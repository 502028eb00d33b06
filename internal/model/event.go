package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultColor 未指定顏色時使用
const DefaultColor = "#1976d2"

type Event struct {
	ID          int64     `json:"-" db:"id"`
	EventID     uuid.UUID `json:"_id" db:"event_id"`
	Title       string    `json:"title" db:"title" validate:"required"`
	Description string    `json:"description" db:"description"`
	Start       time.Time `json:"start" db:"start_at" validate:"required"`
	End         time.Time `json:"end" db:"end_at" validate:"required,gtefield=Start"`
	Color       string    `json:"color" db:"color" validate:"omitempty,hexcolor"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Overlaps reports whether [Start, End] intersects the closed window [from, to].
// A nil bound is unbounded on that side.
func (e *Event) Overlaps(from, to *time.Time) bool {
	if to != nil && e.Start.After(*to) {
		return false
	}
	if from != nil && e.End.Before(*from) {
		return false
	}
	return true
}

// UpdateEventParams 只有非 nil 的欄位會被更新
type UpdateEventParams struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Color       *string
}

// Apply returns a copy of e with the supplied fields replaced.
func (p UpdateEventParams) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	return e
}

// EventFilter 區間查詢條件，From/To 為 nil 代表不設限
type EventFilter struct {
	From *time.Time
	To   *time.Time
}
