package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go-gin-calendar/internal/model"

	"github.com/redis/go-redis/v9"
)

type HolidayCache interface {
	// Get 回傳快取內容；ok 為 false 代表未命中
	Get(ctx context.Context, year int, country string) (holidays []model.Holiday, ok bool, err error)
	Set(ctx context.Context, year int, country string, holidays []model.Holiday, ttl time.Duration) error
}

type RedisHolidayCacheImpl struct {
	client *redis.Client
}

func NewRedisHolidayCache(client *redis.Client) HolidayCache {
	return &RedisHolidayCacheImpl{
		client: client,
	}
}

// 假日 key
func (c *RedisHolidayCacheImpl) getKey(year int, country string) string {
	return fmt.Sprintf("holidays:%d:%s", year, strings.ToUpper(country))
}

func (c *RedisHolidayCacheImpl) Get(ctx context.Context, year int, country string) ([]model.Holiday, bool, error) {
	val, err := c.client.Get(ctx, c.getKey(year, country)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var holidays []model.Holiday
	if err := json.Unmarshal([]byte(val), &holidays); err != nil {
		return nil, false, fmt.Errorf("invalid cached holidays: %w", err)
	}
	return holidays, true, nil
}

func (c *RedisHolidayCacheImpl) Set(ctx context.Context, year int, country string, holidays []model.Holiday, ttl time.Duration) error {
	data, err := json.Marshal(holidays)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.getKey(year, country), data, ttl).Err()
}
