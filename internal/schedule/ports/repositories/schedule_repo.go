// Package repositories определяет порты хранилища сущностей.
package repositories

import (
	"context"

	"transportschedule/internal/schedule/domain/entities"
)

// ScheduleRepository - общий контракт хранилища рейсов одного вида.
type ScheduleRepository[T any] interface {
	Create(ctx context.Context, entry *T) (*T, error)

	FindByID(ctx context.Context, id int64) (*T, error)

	// Update полностью заменяет изменяемые поля записи id.
	Update(ctx context.Context, id int64, entry *T) (*T, error)

	Delete(ctx context.Context, id int64) error

	// ListPage возвращает страницу pageNumber (с нуля), отсортированную по отправлению.
	ListPage(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*T], error)

	// FindByOrigin ищет рейсы по точному совпадению города отправления.
	FindByOrigin(ctx context.Context, city string) ([]*T, error)
}

// BusRepository - хранилище автобусных рейсов.
type BusRepository interface {
	ScheduleRepository[entities.Bus]
}

// TrainRepository - хранилище поездов с поиском по паре городов.
type TrainRepository interface {
	ScheduleRepository[entities.Train]

	// FindByCityPair ищет поезда, у которых cityFrom - город отправления или остановка,
	// а cityTo - город прибытия или остановка. Порядок остановок не проверяется.
	FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error)
}
