package postgres

import (
	"transportschedule/internal/schedule/ports/repositories"
)

// RepositoryFactory создает все репозитории сервиса расписаний.
type RepositoryFactory struct {
	busRepo   repositories.BusRepository
	trainRepo repositories.TrainRepository
	userRepo  repositories.UserRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		busRepo:   NewBusRepository(pool),
		trainRepo: NewTrainRepository(pool),
		userRepo:  NewUserRepository(pool),
	}
}

// BusRepository возвращает репозиторий автобусных рейсов.
func (f *RepositoryFactory) BusRepository() repositories.BusRepository {
	return f.busRepo
}

// TrainRepository возвращает репозиторий поездов.
func (f *RepositoryFactory) TrainRepository() repositories.TrainRepository {
	return f.trainRepo
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}
