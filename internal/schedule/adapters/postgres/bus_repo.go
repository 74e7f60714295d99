package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/repositories"
	"transportschedule/pkg/logger"
)

const busColumns = "id, city_from, city_to, price, departure_at, arrival_at"

// BusRepository реализует repositories.BusRepository для Postgres.
type BusRepository struct {
	pool PgxPoolInterface
}

// NewBusRepository создает репозиторий автобусных рейсов.
func NewBusRepository(pool PgxPoolInterface) repositories.BusRepository {
	return &BusRepository{pool: pool}
}

func scanBus(row pgx.Row) (*entities.Bus, error) {
	var bus entities.Bus
	err := row.Scan(
		&bus.ID,
		&bus.CityFrom,
		&bus.CityTo,
		&bus.Price,
		&bus.DepartureAt,
		&bus.ArrivalAt,
	)
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

// Create сохраняет новый рейс и возвращает его с присвоенным id.
func (r *BusRepository) Create(ctx context.Context, bus *entities.Bus) (*entities.Bus, error) {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "Create"))

	query := `
        INSERT INTO buses (city_from, city_to, price, departure_at, arrival_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + busColumns

	created, err := scanBus(r.pool.QueryRow(ctx, query,
		bus.CityFrom,
		bus.CityTo,
		bus.Price,
		bus.DepartureAt,
		bus.ArrivalAt,
	))
	if err != nil {
		log.Error(ctx, "error creating bus", zap.Error(err))
		return nil, fmt.Errorf("error creating bus: %w", err)
	}

	return created, nil
}

// FindByID находит рейс по id.
func (r *BusRepository) FindByID(ctx context.Context, id int64) (*entities.Bus, error) {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "FindByID"))

	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`

	bus, err := scanBus(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "bus not found", zap.Int64("id", id))
			return nil, entities.NewNotFoundError(entities.KindBus, id)
		}
		log.Error(ctx, "error finding bus by id", zap.Error(err))
		return nil, fmt.Errorf("error querying bus by id: %w", err)
	}

	return bus, nil
}

// Update заменяет поля рейса id.
func (r *BusRepository) Update(ctx context.Context, id int64, bus *entities.Bus) (*entities.Bus, error) {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "Update"))

	query := `
        UPDATE buses
        SET city_from = $2, city_to = $3, price = $4, departure_at = $5, arrival_at = $6
        WHERE id = $1
        RETURNING ` + busColumns

	updated, err := scanBus(r.pool.QueryRow(ctx, query,
		id,
		bus.CityFrom,
		bus.CityTo,
		bus.Price,
		bus.DepartureAt,
		bus.ArrivalAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "bus not found for update", zap.Int64("id", id))
			return nil, entities.NewNotFoundError(entities.KindBus, id)
		}
		log.Error(ctx, "error updating bus", zap.Error(err))
		return nil, fmt.Errorf("error updating bus: %w", err)
	}

	return updated, nil
}

// Delete удаляет рейс id.
func (r *BusRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting bus", zap.Error(err))
		return fmt.Errorf("error deleting bus: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "bus not found for deletion", zap.Int64("id", id))
		return entities.NewNotFoundError(entities.KindBus, id)
	}

	return nil
}

// ListPage возвращает страницу рейсов, упорядоченных по времени отправления и id.
func (r *BusRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*entities.Bus], error) {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "ListPage"))

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM buses`).Scan(&total); err != nil {
		log.Error(ctx, "error counting buses", zap.Error(err))
		return nil, fmt.Errorf("error counting buses: %w", err)
	}

	query := `
        SELECT ` + busColumns + `
        FROM buses
        ORDER BY departure_at, id
        LIMIT $1 OFFSET $2
    `

	buses, err := r.queryBuses(ctx, query, pageSize, offset(pageNumber, pageSize))
	if err != nil {
		log.Error(ctx, "error listing buses", zap.Error(err))
		return nil, fmt.Errorf("error listing buses: %w", err)
	}

	return &entities.Page[*entities.Bus]{
		Items:  buses,
		Number: pageNumber,
		Size:   pageSize,
		Total:  total,
	}, nil
}

// FindByOrigin возвращает рейсы с точным совпадением города отправления.
func (r *BusRepository) FindByOrigin(ctx context.Context, city string) ([]*entities.Bus, error) {
	log := logger.Log(ctx).With(zap.String("repository", "bus"), zap.String("method", "FindByOrigin"))

	query := `
        SELECT ` + busColumns + `
        FROM buses
        WHERE city_from = $1
        ORDER BY departure_at, id
    `

	buses, err := r.queryBuses(ctx, query, city)
	if err != nil {
		log.Error(ctx, "error finding buses by origin", zap.Error(err))
		return nil, fmt.Errorf("error finding buses by origin: %w", err)
	}

	return buses, nil
}

func (r *BusRepository) queryBuses(ctx context.Context, query string, args ...interface{}) ([]*entities.Bus, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := make([]*entities.Bus, 0)
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}

	return buses, rows.Err()
}
