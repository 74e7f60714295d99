package repositories

import (
	"context"

	"transportschedule/internal/schedule/domain/entities"
)

// UserRepository определяет операции хранения учетных записей.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id int64) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	FindAll(ctx context.Context) ([]*entities.User, error)

	Update(ctx context.Context, user *entities.User) (*entities.User, error)

	Delete(ctx context.Context, id int64) error
}
