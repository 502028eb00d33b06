package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	// List 回傳與 filter 區間重疊的活動，依 start 排序
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id int64, params model.UpdateEventParams, updatedAt time.Time) (*model.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, title, description, start_at, end_at, color, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Title,
		&event.Description,
		&event.Start,
		&event.End,
		&event.Color,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// checkViolation 對應 events_interval_check 等 CHECK 約束
const checkViolation = "23514"

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStorage, err)
}

// writeError maps a rejected write. A CHECK violation means the stored row
// would have start after end, which happens when two partial updates race.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolation {
		return fmt.Errorf("%w: start must be before end", apperrors.ErrValidation)
	}
	return storageError(op, err)
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, title, description, start_at, end_at, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID,
		event.Title,
		event.Description,
		event.Start,
		event.End,
		event.Color,
		event.CreatedAt,
		event.UpdatedAt,
	))
	if err != nil {
		return nil, writeError("create event", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	// NULL 邊界視為 ±infinity
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1::timestamptz IS NULL OR start_at <= $1)
		  AND ($2::timestamptz IS NULL OR end_at >= $2)
		ORDER BY start_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, filter.To, filter.From)
	if err != nil {
		return nil, storageError("list events", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, storageError("scan event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list events", err)
	}
	return events, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, storageError("find event", err)
	}
	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, id int64, params model.UpdateEventParams, updatedAt time.Time) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Start != nil {
		add("start_at", *params.Start)
	}
	if params.End != nil {
		add("end_at", *params.End)
	}
	if params.Color != nil {
		add("color", *params.Color)
	}

	// updated_at 每次更新都會刷新
	add("updated_at", updatedAt)

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, writeError("update event", err)
	}
	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, eventID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return storageError("delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&n); err != nil {
		return 0, storageError("count events", err)
	}
	return n, nil
}
