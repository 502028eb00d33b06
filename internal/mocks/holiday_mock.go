package mocks

import (
	"context"
	"time"

	"go-gin-calendar/internal/model"

	"github.com/stretchr/testify/mock"
)

// HolidayProviderMock 模擬外部假日 API
type HolidayProviderMock struct {
	mock.Mock
}

func (m *HolidayProviderMock) PublicHolidays(ctx context.Context, year int, country string) ([]model.Holiday, error) {
	args := m.Called(ctx, year, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Holiday), args.Error(1)
}

// HolidayCacheMock 模擬 Redis 假日快取
type HolidayCacheMock struct {
	mock.Mock
}

func (m *HolidayCacheMock) Get(ctx context.Context, year int, country string) ([]model.Holiday, bool, error) {
	args := m.Called(ctx, year, country)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]model.Holiday), args.Bool(1), args.Error(2)
}

func (m *HolidayCacheMock) Set(ctx context.Context, year int, country string, holidays []model.Holiday, ttl time.Duration) error {
	args := m.Called(ctx, year, country, holidays, ttl)
	return args.Error(0)
}

// HolidayLookupMock 模擬 holiday.Service
type HolidayLookupMock struct {
	mock.Mock
}

func (m *HolidayLookupMock) Lookup(ctx context.Context, year int, country string) []model.Holiday {
	args := m.Called(ctx, year, country)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.Holiday)
}

func (m *HolidayLookupMock) Refresh(ctx context.Context, year int, country string) error {
	args := m.Called(ctx, year, country)
	return args.Error(0)
}
