package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache implements Cache interface using Redis
type RedisCache struct {
	client  *redis.Client
	log     *zap.SugaredLogger
	mu      sync.RWMutex
	healthy bool
	stop    chan struct{}
	once    sync.Once
}

// NewRedisCache creates a new Redis cache instance, checks its health once and
// keeps checking every healthInterval (zero disables the background checker).
func NewRedisCache(client *redis.Client, healthInterval time.Duration, log *zap.Logger) *RedisCache {
	if log == nil {
		log = zap.NewNop()
	}
	rc := &RedisCache{
		client: client,
		log:    log.Sugar().Named("redis"),
		stop:   make(chan struct{}),
	}

	rc.checkHealth(true)

	if healthInterval > 0 {
		go rc.startHealthChecker(healthInterval)
	}

	return rc
}

// Get retrieves a value from Redis cache
func (rc *RedisCache) Get(ctx context.Context, key string) (CacheResult, error) {
	if !rc.IsHealthy() {
		return CacheResult{Found: false}, nil
	}

	value, err := rc.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		CacheRequests.WithLabelValues("redis", "hit").Inc()
		return CacheResult{Data: value, Found: true}, nil
	case err == redis.Nil:
		CacheRequests.WithLabelValues("redis", "miss").Inc()
		return CacheResult{Found: false}, nil
	default:
		CacheRequests.WithLabelValues("redis", "error").Inc()
		rc.setHealthy(false)
		return CacheResult{Found: false}, err
	}
}

// Set stores a value in Redis cache
func (rc *RedisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if !rc.IsHealthy() {
		return nil
	}

	if err := rc.client.Set(ctx, key, value, expiration).Err(); err != nil {
		rc.setHealthy(false)
		return err
	}
	return nil
}

// IsHealthy returns the health status of Redis connection
func (rc *RedisCache) IsHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

// Close stops the background health checker. It does not close the client.
func (rc *RedisCache) Close() {
	rc.once.Do(func() { close(rc.stop) })
}

func (rc *RedisCache) setHealthy(healthy bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.healthy = healthy
}

func (rc *RedisCache) checkHealth(isInitial bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	wasHealthy := rc.IsHealthy()
	err := rc.client.Ping(ctx).Err()
	if err != nil {
		rc.setHealthy(false)
		// Only log transitions, repeated failures stay quiet.
		if isInitial {
			rc.log.Warnf("Redis unavailable: %v", err)
		} else if wasHealthy {
			rc.log.Warnf("Redis connection lost: %v", err)
		}
		return
	}

	rc.setHealthy(true)
	if !isInitial && !wasHealthy {
		rc.log.Info("Redis connection restored")
	}
}

func (rc *RedisCache) startHealthChecker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.checkHealth(false)
		case <-rc.stop:
			return
		}
	}
}
