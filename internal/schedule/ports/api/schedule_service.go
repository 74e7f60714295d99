// Package api определяет входные порты сервиса расписаний.
package api

import (
	"context"

	"transportschedule/internal/schedule/domain/entities"
)

// ScheduleUseCase - операции над рейсами одного вида с кэшированием чтения.
type ScheduleUseCase[T any] interface {
	Get(ctx context.Context, id int64) (*T, error)

	List(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*T], error)

	Add(ctx context.Context, entry *T) (*T, error)

	Update(ctx context.Context, id int64, entry *T) (*T, error)

	Delete(ctx context.Context, id int64) error

	RoutesFromCity(ctx context.Context, city string) ([]string, error)

	// CachedPages возвращает число закэшированных страниц списка.
	CachedPages(ctx context.Context) (int, error)
}

// BusUseCase - операции над автобусными рейсами.
type BusUseCase interface {
	ScheduleUseCase[entities.Bus]
}

// TrainUseCase - операции над поездами и поиск по паре городов.
type TrainUseCase interface {
	ScheduleUseCase[entities.Train]

	FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error)
}
