package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-calendar/config"
	"go-gin-calendar/internal/cache"
	"go-gin-calendar/internal/database"
	"go-gin-calendar/internal/handler"
	"go-gin-calendar/internal/holiday"
	"go-gin-calendar/internal/repository"
	"go-gin-calendar/internal/service"
	"go-gin-calendar/internal/worker"
	"go-gin-calendar/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("server")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	weekStart, err := cfg.Calendar.WeekStartDay()
	if err != nil {
		log.Fatal("Invalid calendar config", zap.Error(err))
	}
	loc, err := cfg.Calendar.Location()
	if err != nil {
		log.Fatal("Invalid calendar timezone", zap.String("timezone", cfg.Calendar.Timezone), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal("Failed to create schema", zap.Error(err))
	}

	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	// 初始化
	eventRepo := repository.NewEventRepository(pool)
	eventService := service.NewEventService(eventRepo)

	provider := holiday.NewNagerClient(logger.WithComponent("holiday"), cfg.Holiday.BaseURL)
	holidayService := holiday.NewService(provider, cache.NewRedisHolidayCache(rdb), cfg.Holiday.CacheTTL)

	defaultCountry := ""
	if len(cfg.Holiday.Countries) > 0 {
		defaultCountry = cfg.Holiday.Countries[0]
	}

	holidayWorker := worker.NewHolidayWorker(holidayService, cfg.Holiday.Countries, cfg.Holiday.RefreshCron)
	if err := holidayWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start holiday worker", zap.Error(err))
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Calendar Backend is running")
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewHolidayHandler(holidayService, defaultCountry).RegisterRoutes(router)
	handler.NewViewHandler(eventService, holidayService, handler.ViewDefaults{
		WeekStart: weekStart,
		Location:  loc,
		MaxPerDay: cfg.Calendar.MaxPerDay,
		Country:   defaultCountry,
	}).RegisterRoutes(router)
	handler.NewICSHandler(eventService).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
