package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the optional report-cache connection. Returns nil
// when the cache is disabled; callers fall back to computing reports
// directly from the database.
func ConnectRedis(cfg *Config) *redis.Client {
	if !cfg.Redis.Enabled {
		log.Println("ℹ️  Redis disabled, report caching off")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis unreachable at %s, report caching off: %v", cfg.Redis.Address, err)
		return nil
	}

	log.Printf("✅ Redis connected successfully [%s]", cfg.Redis.Address)
	return client
}
