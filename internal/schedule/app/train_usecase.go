package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/cache"
	"transportschedule/internal/schedule/ports/repositories"
	"transportschedule/pkg/logger"
)

const (
	methodFindByCityPair = "FindByCityPair"

	msgSearchingTrains = "searching trains by city pair"
	msgTrainsFound     = "trains found"

	errCtxSearchingTrains = "searching trains by city pair"
)

// TrainUseCaseImpl реализует api.TrainUseCase.
type TrainUseCaseImpl struct {
	*CachedSchedule[entities.Train, *entities.Train]
	trainRepo repositories.TrainRepository
}

// NewTrainUseCase создает сервис поездов с кэшированием.
func NewTrainUseCase(repo repositories.TrainRepository, store cache.Store, settings CacheSettings) api.TrainUseCase {
	return &TrainUseCaseImpl{
		CachedSchedule: NewCachedSchedule[entities.Train, *entities.Train](entities.KindTrain, repo, store, settings),
		trainRepo:      repo,
	}
}

// FindByCityPair ищет поезда в обход кэша. Пустой результат не является ошибкой.
func (u *TrainUseCaseImpl) FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodFindByCityPair),
		zap.String("city_from", cityFrom),
		zap.String("city_to", cityTo))
	log.Debug(ctx, msgSearchingTrains)

	trains, err := u.trainRepo.FindByCityPair(ctx, cityFrom, cityTo)
	if err != nil {
		log.Error(ctx, errCtxSearchingTrains, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxSearchingTrains, err)
	}
	if trains == nil {
		trains = []*entities.Train{}
	}

	log.Info(ctx, msgTrainsFound, zap.Int("count", len(trains)))
	return trains, nil
}
