package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tmarkov/flightdesk/config"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/pagination"
)

// RedisCache caches airport reference pages and holds short-lived seat locks
// that guard reservation creation against double booking.
type RedisCache struct {
	client      *redis.Client
	airportsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, airportsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		airportsTTL: airportsTTL,
	}
}

// GetAirportsPage returns the cached page envelope, or nil on a miss.
func (c *RedisCache) GetAirportsPage(ctx context.Context, page int) (*pagination.Page[domain.Airport], error) {
	data, err := c.client.Get(ctx, airportsKey(page)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached pagination.Page[domain.Airport]
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func (c *RedisCache) SetAirportsPage(ctx context.Context, page int, airports pagination.Page[domain.Airport]) error {
	payload, err := json.Marshal(airports)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportsKey(page), payload, c.airportsTTL).Err()
}

func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID int64, seat string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(flightID, seat), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID int64, seat string) error {
	return c.client.Del(ctx, seatLockKey(flightID, seat)).Err()
}

func airportsKey(page int) string {
	return fmt.Sprintf("cache:airports:page:%d", page)
}

func seatLockKey(flightID int64, seat string) string {
	return fmt.Sprintf("lock:flight:%d:seat:%s", flightID, seat)
}
