package service

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
	"go-gin-calendar/internal/repository"
	apperrors "go-gin-calendar/pkg/app_errors"
	"go-gin-calendar/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	// UpdateByEventID 只更新有提供的欄位，合併後重新驗證 start <= end
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

type EventServiceImpl struct {
	repo     repository.EventRepository
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*EventServiceImpl)

// WithClock overrides the source of createdAt/updatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *EventServiceImpl) { s.now = now }
}

func NewEventService(repo repository.EventRepository, opts ...Option) EventService {
	s := &EventServiceImpl{
		repo:     repo,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 錯誤訊息使用 JSON 欄位名稱
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *EventServiceImpl) List(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return s.repo.List(ctx, filter)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	draft := *event
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Color == "" {
		draft.Color = model.DefaultColor
	}
	if err := s.check(&draft); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft.EventID = uuid.New()
	draft.Start = draft.Start.UTC()
	draft.End = draft.End.UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	created, err := s.repo.Create(ctx, &draft)
	if err != nil {
		return nil, err
	}
	logger.WithComponent("service").Debug("event created", zap.String("event_id", created.EventID.String()))
	return created, nil
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	existing, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		params.Title = &trimmed
	}
	if params.Start != nil {
		start := params.Start.UTC()
		params.Start = &start
	}
	if params.End != nil {
		end := params.End.UTC()
		params.End = &end
	}

	merged := params.Apply(*existing)
	if err := s.check(&merged); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, existing.ID, params, s.now().UTC())
}

func (s *EventServiceImpl) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	return s.repo.Delete(ctx, eventID)
}

// check 將 validator 的錯誤轉為 ErrValidation
func (s *EventServiceImpl) check(event *model.Event) error {
	err := s.validate.Struct(event)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gtefield":
		return "start must be before end"
	case "hexcolor":
		return "color must be a hex color such as #1976d2"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
