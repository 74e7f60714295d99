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

// Остановки собираются одним подзапросом в порядке position.
const trainSelect = `
        SELECT t.id, t.city_from, t.city_to, t.price, t.departure_at, t.arrival_at,
               COALESCE((SELECT array_agg(s.city ORDER BY s.position)
                         FROM train_stops s WHERE s.train_id = t.id), '{}')
        FROM trains t`

const insertStopQuery = `INSERT INTO train_stops (train_id, position, city) VALUES ($1, $2, $3)`

// TrainRepository реализует repositories.TrainRepository для Postgres.
type TrainRepository struct {
	pool PgxPoolInterface
}

// NewTrainRepository создает репозиторий поездов.
func NewTrainRepository(pool PgxPoolInterface) repositories.TrainRepository {
	return &TrainRepository{pool: pool}
}

func scanTrain(row pgx.Row) (*entities.Train, error) {
	var train entities.Train
	err := row.Scan(
		&train.ID,
		&train.CityFrom,
		&train.CityTo,
		&train.Price,
		&train.DepartureAt,
		&train.ArrivalAt,
		&train.Stops,
	)
	if err != nil {
		return nil, err
	}
	if train.Stops == nil {
		train.Stops = []string{}
	}
	return &train, nil
}

// Create сохраняет поезд вместе с остановками в одной транзакции.
func (r *TrainRepository) Create(ctx context.Context, train *entities.Train) (*entities.Train, error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "Create"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	query := `
        INSERT INTO trains (city_from, city_to, price, departure_at, arrival_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	var id int64
	err = tx.QueryRow(ctx, query,
		train.CityFrom,
		train.CityTo,
		train.Price,
		train.DepartureAt,
		train.ArrivalAt,
	).Scan(&id)
	if err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error creating train", zap.Error(err))
		return nil, fmt.Errorf("error creating train: %w", err)
	}

	if err := insertStops(ctx, tx, id, train.Stops); err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error inserting train stops", zap.Error(err))
		return nil, fmt.Errorf("error inserting train stops: %w", err)
	}

	created, err := reloadTrain(ctx, tx, id)
	if err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error reading created train", zap.Error(err))
		return nil, fmt.Errorf("error reading created train: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing train", zap.Error(err))
		return nil, fmt.Errorf("error committing train: %w", err)
	}

	return created, nil
}

// FindByID находит поезд по id вместе с остановками.
func (r *TrainRepository) FindByID(ctx context.Context, id int64) (*entities.Train, error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "FindByID"))

	train, err := scanTrain(r.pool.QueryRow(ctx, trainSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "train not found", zap.Int64("id", id))
			return nil, entities.NewNotFoundError(entities.KindTrain, id)
		}
		log.Error(ctx, "error finding train by id", zap.Error(err))
		return nil, fmt.Errorf("error querying train by id: %w", err)
	}

	return train, nil
}

// Update заменяет поля и остановки поезда id.
func (r *TrainRepository) Update(ctx context.Context, id int64, train *entities.Train) (*entities.Train, error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "Update"))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, "error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	query := `
        UPDATE trains
        SET city_from = $2, city_to = $3, price = $4, departure_at = $5, arrival_at = $6
        WHERE id = $1
        RETURNING id`

	var updatedID int64
	err = tx.QueryRow(ctx, query,
		id,
		train.CityFrom,
		train.CityTo,
		train.Price,
		train.DepartureAt,
		train.ArrivalAt,
	).Scan(&updatedID)
	if err != nil {
		rollback(ctx, tx)
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "train not found for update", zap.Int64("id", id))
			return nil, entities.NewNotFoundError(entities.KindTrain, id)
		}
		log.Error(ctx, "error updating train", zap.Error(err))
		return nil, fmt.Errorf("error updating train: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM train_stops WHERE train_id = $1`, id); err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error clearing train stops", zap.Error(err))
		return nil, fmt.Errorf("error clearing train stops: %w", err)
	}

	if err := insertStops(ctx, tx, id, train.Stops); err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error inserting train stops", zap.Error(err))
		return nil, fmt.Errorf("error inserting train stops: %w", err)
	}

	updated, err := reloadTrain(ctx, tx, updatedID)
	if err != nil {
		rollback(ctx, tx)
		log.Error(ctx, "error reading updated train", zap.Error(err))
		return nil, fmt.Errorf("error reading updated train: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, "error committing train", zap.Error(err))
		return nil, fmt.Errorf("error committing train: %w", err)
	}

	return updated, nil
}

// Delete удаляет поезд id. Остановки удаляются каскадно.
func (r *TrainRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM trains WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, "error deleting train", zap.Error(err))
		return fmt.Errorf("error deleting train: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "train not found for deletion", zap.Int64("id", id))
		return entities.NewNotFoundError(entities.KindTrain, id)
	}

	return nil
}

// ListPage возвращает страницу поездов, упорядоченных по времени отправления и id.
func (r *TrainRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*entities.Train], error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "ListPage"))

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM trains`).Scan(&total); err != nil {
		log.Error(ctx, "error counting trains", zap.Error(err))
		return nil, fmt.Errorf("error counting trains: %w", err)
	}

	trains, err := r.queryTrains(ctx,
		trainSelect+` ORDER BY t.departure_at, t.id LIMIT $1 OFFSET $2`,
		pageSize, offset(pageNumber, pageSize))
	if err != nil {
		log.Error(ctx, "error listing trains", zap.Error(err))
		return nil, fmt.Errorf("error listing trains: %w", err)
	}

	return &entities.Page[*entities.Train]{
		Items:  trains,
		Number: pageNumber,
		Size:   pageSize,
		Total:  total,
	}, nil
}

// FindByOrigin возвращает поезда с точным совпадением города отправления.
func (r *TrainRepository) FindByOrigin(ctx context.Context, city string) ([]*entities.Train, error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "FindByOrigin"))

	trains, err := r.queryTrains(ctx,
		trainSelect+` WHERE t.city_from = $1 ORDER BY t.departure_at, t.id`, city)
	if err != nil {
		log.Error(ctx, "error finding trains by origin", zap.Error(err))
		return nil, fmt.Errorf("error finding trains by origin: %w", err)
	}

	return trains, nil
}

// FindByCityPair ищет поезда, проходящие через оба города. Каждый поезд попадает в результат один раз.
func (r *TrainRepository) FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error) {
	log := logger.Log(ctx).With(zap.String("repository", "train"), zap.String("method", "FindByCityPair"))

	query := trainSelect + `
        WHERE (t.city_from = $1 OR EXISTS (
                  SELECT 1 FROM train_stops s WHERE s.train_id = t.id AND s.city = $1))
          AND (t.city_to = $2 OR EXISTS (
                  SELECT 1 FROM train_stops s WHERE s.train_id = t.id AND s.city = $2))
        ORDER BY t.departure_at, t.id`

	trains, err := r.queryTrains(ctx, query, cityFrom, cityTo)
	if err != nil {
		log.Error(ctx, "error searching trains by city pair", zap.Error(err))
		return nil, fmt.Errorf("error searching trains by city pair: %w", err)
	}

	return trains, nil
}

func (r *TrainRepository) queryTrains(ctx context.Context, query string, args ...interface{}) ([]*entities.Train, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trains := make([]*entities.Train, 0)
	for rows.Next() {
		train, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, train)
	}

	return trains, rows.Err()
}

// reloadTrain читает только что записанный поезд в той же транзакции:
// цена и время возвращаются в том виде, в каком их сохранила база.
func reloadTrain(ctx context.Context, tx pgx.Tx, id int64) (*entities.Train, error) {
	return scanTrain(tx.QueryRow(ctx, trainSelect+` WHERE t.id = $1`, id))
}

func insertStops(ctx context.Context, tx pgx.Tx, trainID int64, stops []string) error {
	for position, city := range stops {
		if _, err := tx.Exec(ctx, insertStopQuery, trainID, position, city); err != nil {
			return err
		}
	}
	return nil
}
