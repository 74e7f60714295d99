// Package app содержит сценарии использования сервиса расписаний.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/cache"
	"transportschedule/internal/schedule/ports/repositories"
	"transportschedule/pkg/logger"
)

const (
	methodGet            = "Get"
	methodList           = "List"
	methodAdd            = "Add"
	methodUpdate         = "Update"
	methodDelete         = "Delete"
	methodRoutesFromCity = "RoutesFromCity"
	methodCachedPages    = "CachedPages"

	msgCacheHit         = "served from cache"
	msgCacheMiss        = "cache miss, loading from store"
	msgCacheReadFailed  = "cache read failed, falling back to store"
	msgCacheDecodeFail  = "cached value is corrupt, falling back to store"
	msgCacheWriteFailed = "cache write failed, ignoring"
	msgCacheInvalidated = "page listings invalidated"
	msgEntryAdded       = "entry added"
	msgEntryUpdated     = "entry updated"
	msgEntryDeleted     = "entry deleted"

	errCtxValidating     = "validating entry"
	errCtxLoading        = "loading entry"
	errCtxListing        = "listing entries"
	errCtxCreating       = "creating entry"
	errCtxUpdating       = "updating entry"
	errCtxDeleting       = "deleting entry"
	errCtxFindingOrigin  = "finding entries by origin"
	errCtxReadingPages   = "reading cached pages"
	errCtxInvalidPageReq = "invalid page request"
)

// CacheKeys описывает префиксы ключей одного вида сущностей.
type CacheKeys struct {
	EntityPrefix string
	PagePrefix   string
}

// Entity возвращает ключ записи id, например "Bus:42".
func (k CacheKeys) Entity(id int64) string {
	return k.EntityPrefix + strconv.FormatInt(id, 10)
}

// Page возвращает ключ страницы, например "busesPage:0:10".
func (k CacheKeys) Page(pageNumber, pageSize int) string {
	return k.PagePrefix + strconv.Itoa(pageNumber) + ":" + strconv.Itoa(pageSize)
}

// CacheSettings - параметры кэширования, разрешенные при старте процесса.
type CacheSettings struct {
	Keys CacheKeys
	TTL  time.Duration
}

// Lookup - результат обращения к кэшу: Hit=false означает промах.
type Lookup[T any] struct {
	Value T
	Hit   bool
}

// scheduleEntry - ограничение на указатель рейса.
type scheduleEntry[T any] interface {
	*T
	Validate() error
	Route() string
}

// cachedPage - содержимое закэшированной страницы вместе с общим числом записей.
type cachedPage[T any] struct {
	Items []*T  `json:"items"`
	Total int64 `json:"total"`
}

// CachedSchedule реализует cache-aside поверх хранилища рейсов одного вида.
type CachedSchedule[T any, P scheduleEntry[T]] struct {
	kind     string
	repo     repositories.ScheduleRepository[T]
	store    cache.Store
	settings CacheSettings
}

// NewCachedSchedule создает обертку кэширования для хранилища repo.
func NewCachedSchedule[T any, P scheduleEntry[T]](
	kind string,
	repo repositories.ScheduleRepository[T],
	store cache.Store,
	settings CacheSettings,
) *CachedSchedule[T, P] {
	return &CachedSchedule[T, P]{
		kind:     kind,
		repo:     repo,
		store:    store,
		settings: settings,
	}
}

// Get возвращает запись по id: сначала из кэша, при промахе из хранилища с записью в кэш.
func (s *CachedSchedule[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	key := s.settings.Keys.Entity(id)
	log := s.log(ctx, methodGet).With(zap.Int64("id", id), zap.String("key", key))

	cached := lookup[T](ctx, s.store, key)
	if cached.Hit {
		log.Debug(ctx, msgCacheHit)
		return &cached.Value, nil
	}

	log.Debug(ctx, msgCacheMiss)
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoading, err)
	}

	s.put(ctx, key, entry)
	return entry, nil
}

// List возвращает страницу pageNumber (с нуля) размера pageSize.
// Общее число записей хранится вместе со страницей и отдается из кэша как есть.
func (s *CachedSchedule[T, P]) List(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*T], error) {
	if pageNumber < 0 || pageSize <= 0 {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidPageReq, &entities.ValidationError{
			Field: "page", Err: fmt.Errorf("page %d size %d", pageNumber, pageSize),
		})
	}

	key := s.settings.Keys.Page(pageNumber, pageSize)
	log := s.log(ctx, methodList).With(zap.String("key", key))

	cached := lookup[cachedPage[T]](ctx, s.store, key)
	if cached.Hit && len(cached.Value.Items) > 0 {
		log.Debug(ctx, msgCacheHit)
		return &entities.Page[*T]{
			Items:  cached.Value.Items,
			Number: pageNumber,
			Size:   pageSize,
			Total:  cached.Value.Total,
		}, nil
	}

	log.Debug(ctx, msgCacheMiss)
	page, err := s.repo.ListPage(ctx, pageNumber, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListing, err)
	}

	// Пустые страницы не кэшируются: при чтении они все равно считаются промахом.
	if len(page.Items) > 0 {
		s.put(ctx, key, &cachedPage[T]{Items: page.Items, Total: page.Total})
	}
	return page, nil
}

// Add сохраняет новую запись и сбрасывает все закэшированные страницы.
func (s *CachedSchedule[T, P]) Add(ctx context.Context, entry *T) (*T, error) {
	log := s.log(ctx, methodAdd)

	if err := P(entry).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxCreating, err)
	}

	s.invalidatePages(ctx)
	log.Info(ctx, msgEntryAdded)
	return created, nil
}

// Update заменяет поля записи id, обновляет ее ключ в кэше и сбрасывает страницы.
func (s *CachedSchedule[T, P]) Update(ctx context.Context, id int64, entry *T) (*T, error) {
	key := s.settings.Keys.Entity(id)
	log := s.log(ctx, methodUpdate).With(zap.Int64("id", id))

	if err := P(entry).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidating, err)
	}

	updated, err := s.repo.Update(ctx, id, entry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpdating, err)
	}

	s.remove(ctx, key)
	s.put(ctx, key, updated)
	s.invalidatePages(ctx)

	log.Info(ctx, msgEntryUpdated)
	return updated, nil
}

// Delete удаляет запись id. Если записи нет, кэш не трогается.
func (s *CachedSchedule[T, P]) Delete(ctx context.Context, id int64) error {
	log := s.log(ctx, methodDelete).With(zap.Int64("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", errCtxDeleting, err)
	}

	s.remove(ctx, s.settings.Keys.Entity(id))
	s.invalidatePages(ctx)

	log.Info(ctx, msgEntryDeleted)
	return nil
}

// RoutesFromCity возвращает строки "откуда - куда" для рейсов из city в порядке хранилища.
func (s *CachedSchedule[T, P]) RoutesFromCity(ctx context.Context, city string) ([]string, error) {
	log := s.log(ctx, methodRoutesFromCity).With(zap.String("city", city))

	entries, err := s.repo.FindByOrigin(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingOrigin, err)
	}

	routes := make([]string, 0, len(entries))
	for _, entry := range entries {
		routes = append(routes, P(entry).Route())
	}

	log.Debug(ctx, "routes found", zap.Int("count", len(routes)))
	return routes, nil
}

// CachedPages возвращает число страниц списка, лежащих сейчас в кэше.
func (s *CachedSchedule[T, P]) CachedPages(ctx context.Context) (int, error) {
	values, err := s.store.GetManyByPrefix(ctx, s.settings.Keys.PagePrefix)
	if err != nil {
		s.log(ctx, methodCachedPages).Warn(ctx, msgCacheReadFailed, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxReadingPages, err)
	}
	return len(values), nil
}

func (s *CachedSchedule[T, P]) put(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err == nil {
		err = s.store.Put(ctx, key, data, s.settings.TTL)
	}
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed,
			zap.String("kind", s.kind), zap.String("key", key), zap.Error(err))
	}
}

func (s *CachedSchedule[T, P]) remove(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed,
			zap.String("kind", s.kind), zap.String("key", key), zap.Error(err))
	}
}

func (s *CachedSchedule[T, P]) invalidatePages(ctx context.Context) {
	prefix := s.settings.Keys.PagePrefix
	if err := s.store.RemoveByPrefix(ctx, prefix); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed,
			zap.String("kind", s.kind), zap.String("prefix", prefix), zap.Error(err))
		return
	}
	logger.Log(ctx).Debug(ctx, msgCacheInvalidated, zap.String("kind", s.kind), zap.String("prefix", prefix))
}

func (s *CachedSchedule[T, P]) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(zap.String("kind", s.kind), zap.String("method", method))
}

// lookup читает и декодирует значение. Любая ошибка кэша превращается в промах.
func lookup[T any](ctx context.Context, store cache.Store, key string) Lookup[T] {
	data, found, err := store.Get(ctx, key)
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheReadFailed, zap.String("key", key), zap.Error(err))
		return Lookup[T]{}
	}
	if !found {
		return Lookup[T]{}
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheDecodeFail, zap.String("key", key), zap.Error(err))
		return Lookup[T]{}
	}
	return Lookup[T]{Value: value, Hit: true}
}
