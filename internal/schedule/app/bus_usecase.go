package app

import (
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/cache"
	"transportschedule/internal/schedule/ports/repositories"
)

// BusUseCaseImpl реализует api.BusUseCase.
type BusUseCaseImpl struct {
	*CachedSchedule[entities.Bus, *entities.Bus]
}

// NewBusUseCase создает сервис автобусных рейсов с кэшированием.
func NewBusUseCase(repo repositories.BusRepository, store cache.Store, settings CacheSettings) api.BusUseCase {
	return &BusUseCaseImpl{
		CachedSchedule: NewCachedSchedule[entities.Bus, *entities.Bus](entities.KindBus, repo, store, settings),
	}
}
