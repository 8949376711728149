package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propman/services/logger"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache bộ nhớ đệm đọc, hủy theo tag
type Cache interface {
	Get(ctx context.Context, key string, target any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error
	Invalidate(ctx context.Context, tags ...string) error
}

const tagPrefix = "tag:"

// RedisTagCache lưu giá trị JSON, mỗi tag là một SET chứa các key phụ thuộc
type RedisTagCache struct {
	rdb *redis.Client
	log logger.Logger
}

func NewRedisTagCache(rdb *redis.Client, log logger.Logger) *RedisTagCache {
	return &RedisTagCache{rdb: rdb, log: log}
}

// Get trả về false nếu key không có trong cache
func (c *RedisTagCache) Get(ctx context.Context, key string, target any) (bool, error) {
	cachedData, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(cachedData, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisTagCache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, dataJSON, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagPrefix+tag, key)
		pipe.Expire(ctx, tagPrefix+tag, 2*ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate xóa mọi key gắn với các tag
func (c *RedisTagCache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := c.rdb.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return err
		}
		keys = append(keys, tagPrefix+tag)
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// NopCache không lưu gì, dùng khi không có redis và trong test
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NopCache) Set(context.Context, string, any, time.Duration, ...string) error { return nil }

func (NopCache) Invalidate(context.Context, ...string) error { return nil }

// Remember đọc từ cache, nếu thiếu thì gọi load và lưu lại. Lỗi cache chỉ được log.
func Remember[T any](ctx context.Context, c Cache, log logger.Logger, key string, ttl time.Duration, tags []string, load func() (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("Lỗi đọc cache %s: %v", key, err)
	}
	if hit {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value, ttl, tags...); err != nil {
		log.Warn("Lỗi ghi cache %s: %v", key, err)
	}
	return value, nil
}

// invalidate hủy cache sau khi ghi thành công, không ảnh hưởng kết quả
func invalidate(ctx context.Context, c Cache, log logger.Logger, tags ...string) {
	if err := c.Invalidate(ctx, tags...); err != nil {
		log.Warn("Lỗi hủy cache %v: %v", tags, err)
	}
}

func orgTag(kind string, orgID uint) string {
	return fmt.Sprintf("%s:org:%d", kind, orgID)
}

func propertyTag(propertyID uint) string {
	return fmt.Sprintf("property:%d", propertyID)
}

func unitTag(unitID uint) string {
	return fmt.Sprintf("unit:%d", unitID)
}
