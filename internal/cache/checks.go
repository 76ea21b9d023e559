package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kitchenops/internal/shortage"

	"github.com/go-redis/redis/v8"
)

// CheckCache keeps the latest check per schedule in redis so dashboards
// polling for the latest state do not hit the database. The cache is
// strictly optional: a nil cache, a down redis, or a decode failure all
// behave as a miss.
type CheckCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient connects to redis and verifies the connection.
func NewClient(host, port, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}

// NewCheckCache wraps a redis client. The client may be nil.
func NewCheckCache(rdb *redis.Client, ttl time.Duration) *CheckCache {
	return &CheckCache{rdb: rdb, ttl: ttl}
}

func key(scheduleID string) string {
	return "inventory_check:latest:" + scheduleID
}

// Get returns the cached latest check for a schedule, or a miss.
func (c *CheckCache) Get(ctx context.Context, scheduleID string) (*shortage.CheckResult, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key(scheduleID)).Bytes()
	if err != nil {
		return nil, false
	}
	var result shortage.CheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// CheckCompleted refreshes the cached latest check for the schedule. It
// implements shortage.Notifier, so automatic runs keep the cache current
// instead of leaving a stale entry until the TTL expires.
func (c *CheckCache) CheckCompleted(result *shortage.CheckResult) {
	c.Set(context.Background(), result)
}

// Set stores a completed check as the schedule's latest.
func (c *CheckCache) Set(ctx context.Context, result *shortage.CheckResult) {
	if c == nil || c.rdb == nil || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key(result.ScheduleID), data, c.ttl)
}
