package config

import (
	"context"

	"propman/services/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis kết nối đến Redis
func ConnectRedis(ctx context.Context, cfg RedisConfig, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.User,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Info("Kết nối Redis thành công: %s", res)
	return rdb, nil
}
