package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-gin-calendar/internal/holiday"
	"go-gin-calendar/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRefreshSchedule = "0 3 * * *"
	refreshConcurrency     = 4
)

type HolidayWorker interface {
	// 啟動排程，ctx 結束時停止
	Start(ctx context.Context) error
	// RefreshAll 重新抓取今年與明年所有國家的假日
	RefreshAll(ctx context.Context) error
}

type HolidayWorkerImpl struct {
	holidays  holiday.Service
	countries []string
	schedule  string
	now       func() time.Time
}

type Option func(*HolidayWorkerImpl)

func WithClock(now func() time.Time) Option {
	return func(w *HolidayWorkerImpl) { w.now = now }
}

func NewHolidayWorker(holidays holiday.Service, countries []string, schedule string, opts ...Option) HolidayWorker {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	w := &HolidayWorkerImpl{
		holidays:  holidays,
		countries: countries,
		schedule:  schedule,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *HolidayWorkerImpl) Start(ctx context.Context) error {
	log := logger.WithComponent("worker")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log.Sugar()})))
	if _, err := c.AddFunc(w.schedule, func() { _ = w.RefreshAll(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", w.schedule, err)
	}

	// 啟動時先跑一次，之後交給排程
	go func() { _ = w.RefreshAll(ctx) }()
	c.Start()
	log.Info("Holiday worker started", zap.String("schedule", w.schedule), zap.Strings("countries", w.countries))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info("Holiday worker stopped")
	}()
	return nil
}

func (w *HolidayWorkerImpl) RefreshAll(ctx context.Context) error {
	log := logger.WithComponent("worker")
	year := w.now().Year()

	var (
		mu   sync.Mutex
		errs error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, country := range w.countries {
		country := country
		for _, y := range []int{year, year + 1} {
			y := y
			g.Go(func() error {
				if err := w.holidays.Refresh(gctx, y, country); err != nil {
					log.Warn("Holiday refresh failed", zap.Int("year", y), zap.String("country", country), zap.Error(err))
					mu.Lock()
					errs = multierr.Append(errs, fmt.Errorf("%s/%d: %w", country, y, err))
					mu.Unlock()
				}
				// 單一國家失敗不中斷其他查詢
				return nil
			})
		}
	}
	_ = g.Wait()

	if errs != nil {
		log.Warn("Holiday refresh finished with errors", zap.Int("failed", len(multierr.Errors(errs))))
		return errs
	}
	log.Info("Holiday refresh finished", zap.Int("lookups", 2*len(w.countries)))
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
