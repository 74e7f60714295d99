// Package cache определяет порт внешнего key/value кэша.
package cache

import (
	"context"
	"time"
)

// Store - сетевой key/value кэш с TTL. Все ошибки связи
// оборачивают entities.ErrCacheUnavailable.
type Store interface {
	// Put сохраняет значение, перезаписывая прежнее, с истечением через ttl.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove удаляет ключ; отсутствие ключа не ошибка.
	Remove(ctx context.Context, key string) error

	// RemoveByPrefix удаляет все ключи с префиксом пачками.
	RemoveByPrefix(ctx context.Context, prefix string) error

	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// GetManyByPrefix возвращает все значения под префиксом.
	GetManyByPrefix(ctx context.Context, prefix string) ([][]byte, error)

	Close() error
}
