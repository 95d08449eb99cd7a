package utils

import (
	"context"
	"log"
	"time"

	"servana/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client (availability results,
	// booking-flow sessions).
	CacheClient *redis.Client
	// FeedClient is the dedicated client for the booking change feed
	// (pub/sub), kept separate so feed subscriptions never contend with
	// cache traffic.
	FeedClient *redis.Client
)

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitFeedClient initializes the Redis client carrying the booking change feed.
func InitFeedClient() {
	FeedClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisFeedDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := FeedClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Feed): %v", err)
	}
}

// GetFeedClient returns the Redis client carrying the booking change feed.
func GetFeedClient() *redis.Client {
	if FeedClient == nil {
		InitFeedClient()
	}
	return FeedClient
}
