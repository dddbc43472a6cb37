package utils

import (
	"context"
	"log"
	"time"

	"chronoboard/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds school snapshots.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for admin sessions.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int, purpose string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", purpose, err)
	}
	return client
}

// InitCache initializes the snapshot cache client (REDIS_CACHE_DB).
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the snapshot cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the session client (REDIS_AUTH_DB).
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "Auth Cache")
}

// GetAuthCacheClient returns the Redis client for admin sessions.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
