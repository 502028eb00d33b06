// Package testutil connects integration tests to the docker-compose test
// Postgres and Redis (ports 5433 and 6380).
package testutil

import (
	"context"
	"fmt"
	"log"

	"go-gin-calendar/config"
	"go-gin-calendar/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SetupDatabase 連線測試 DB 並建立 schema
func SetupDatabase() (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()
	ctx := context.Background()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize test database: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	log.Println("Test database connected successfully")

	cleanup := func() {
		pool.Close()
		log.Println("Test database closed")
	}
	return pool, cleanup, nil
}

// SetupRedisOnly 僅初始化 Redis，用於只依賴 Redis 的測試（如假日快取）
func SetupRedisOnly() (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %v", err)
	}
	log.Println("Test redis connected successfully")

	cleanup := func() {
		rdb.Close()
		log.Println("Test redis closed")
	}
	return rdb, cleanup, nil
}

// TruncateEvents 清空資料，保留 schema
func TruncateEvents(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, "TRUNCATE events RESTART IDENTITY")
	return err
}
