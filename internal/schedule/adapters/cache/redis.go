// Package cache реализует порт cache.Store поверх Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/cache"
	"transportschedule/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodPut             = "put"
	LogMethodRemove          = "remove"
	LogMethodRemoveByPrefix  = "removeByPrefix"
	LogMethodGet             = "get"
	LogMethodGetManyByPrefix = "getManyByPrefix"

	ErrorFailedToPut    = "failed to put value into redis"
	ErrorFailedToRemove = "failed to remove value from redis"
	ErrorFailedToScan   = "failed to scan redis keys"
	ErrorFailedToGet    = "failed to get value from redis"
	ErrorFailedToClose  = "failed to close redis connection"

	scanCount = 100
)

// RedisStore реализует cache.Store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore оборачивает готовый клиент go-redis.
func NewRedisStore(client *redis.Client) cache.Store {
	return &RedisStore{client: client}
}

// Put сохраняет значение с TTL.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return s.fail(ctx, LogMethodPut, key, ErrorFailedToPut, err)
	}
	return nil
}

// Remove удаляет ключ.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return s.fail(ctx, LogMethodRemove, key, ErrorFailedToRemove, err)
	}
	return nil
}

// RemoveByPrefix собирает ключи через SCAN и удаляет их одной командой DEL.
// Ключ, записанный параллельно со сканированием, может уцелеть до истечения TTL.
func (s *RedisStore) RemoveByPrefix(ctx context.Context, prefix string) error {
	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return s.fail(ctx, LogMethodRemoveByPrefix, prefix, ErrorFailedToScan, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return s.fail(ctx, LogMethodRemoveByPrefix, prefix, ErrorFailedToRemove, err)
	}

	logger.Log(ctx).Debug(ctx, "keys removed by prefix",
		zap.String("prefix", prefix), zap.Int("count", len(keys)))
	return nil
}

// Get возвращает значение; отсутствие ключа дает found=false без ошибки.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, s.fail(ctx, LogMethodGet, key, ErrorFailedToGet, err)
	}
	return value, true, nil
}

// GetManyByPrefix читает все значения под префиксом через SCAN и MGET.
func (s *RedisStore) GetManyByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	keys, err := s.scan(ctx, prefix)
	if err != nil {
		return nil, s.fail(ctx, LogMethodGetManyByPrefix, prefix, ErrorFailedToScan, err)
	}
	if len(keys) == 0 {
		return [][]byte{}, nil
	}

	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, s.fail(ctx, LogMethodGetManyByPrefix, prefix, ErrorFailedToGet, err)
	}

	values := make([][]byte, 0, len(raw))
	for _, v := range raw {
		// nil - ключ истек между SCAN и MGET.
		if str, ok := v.(string); ok {
			values = append(values, []byte(str))
		}
	}
	return values, nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}

func (s *RedisStore) scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapePattern(prefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *RedisStore) fail(ctx context.Context, method, key, msg string, err error) error {
	logger.Log(ctx).With(zap.String("method", method), zap.String("key", key)).
		Error(ctx, msg, zap.Error(err))
	return fmt.Errorf("%s: %w: %w", msg, entities.ErrCacheUnavailable, err)
}

var patternEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapePattern(prefix string) string {
	return patternEscaper.Replace(prefix)
}
