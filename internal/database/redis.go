package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"

	"github.com/kidsministry/backend/internal/pkg/logger"
)

// InitRedis initializes the Redis client. Redis only backs idempotency keys and
// token revocation, so a nil client is returned when it is unreachable.
func InitRedis(log *logger.Logger) *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	addr := viper.GetString("redis.host") + ":" + viper.GetString("redis.port")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis connection failed, continuing without Redis", "addr", addr, "error", err)
		rdb.Close()
		return nil
	}

	log.Info("Redis connection established", "addr", addr)
	return rdb
}
