package holiday

import (
	"context"
	"fmt"
	"time"

	"go-gin-calendar/internal/cache"
	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"
	"go-gin-calendar/pkg/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Lookup never fails: any upstream or cache error yields an empty list.
	Lookup(ctx context.Context, year int, country string) []model.Holiday
	// Refresh 跳過快取直接向上游查詢並寫回快取
	Refresh(ctx context.Context, year int, country string) error
}

type ServiceImpl struct {
	provider Provider
	cache    cache.HolidayCache
	ttl      time.Duration
}

// NewService builds a lookup service; cache may be nil.
func NewService(provider Provider, holidayCache cache.HolidayCache, ttl time.Duration) Service {
	return &ServiceImpl{provider: provider, cache: holidayCache, ttl: ttl}
}

func (s *ServiceImpl) Lookup(ctx context.Context, year int, country string) []model.Holiday {
	log := logger.WithComponent("holiday").With(zap.Int("year", year), zap.String("country", country))

	if s.cache != nil {
		holidays, ok, err := s.cache.Get(ctx, year, country)
		if err != nil {
			log.Warn("holiday cache read failed", zap.Error(err))
		} else if ok {
			return holidays
		}
	}

	holidays, err := s.fetch(ctx, year, country)
	if err != nil {
		log.Warn("holiday lookup failed, showing none", zap.Error(err))
		return []model.Holiday{}
	}
	return holidays
}

func (s *ServiceImpl) Refresh(ctx context.Context, year int, country string) error {
	_, err := s.fetch(ctx, year, country)
	return err
}

func (s *ServiceImpl) fetch(ctx context.Context, year int, country string) ([]model.Holiday, error) {
	holidays, err := s.provider.PublicHolidays(ctx, year, country)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrHolidayLookup, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, year, country, holidays, s.ttl); err != nil {
			logger.WithComponent("holiday").Warn("holiday cache write failed", zap.Error(err))
		}
	}
	return holidays, nil
}
