package api

import (
	"context"
	"time"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/services"
)

// UserInput - поля учетной записи, приходящие от клиента.
type UserInput struct {
	Username string
	Password string
	Role     entities.Role
}

// UserUseCase - операции над учетными записями. Не кэшируются.
type UserUseCase interface {
	GetUser(ctx context.Context, id int64) (*entities.User, error)

	ListUsers(ctx context.Context) ([]*entities.User, error)

	// Register создает пользователя с ролью USER независимо от запрошенной.
	Register(ctx context.Context, input UserInput) (*entities.User, error)

	UpdateUser(ctx context.Context, id int64, input UserInput) (*entities.User, error)

	DeleteUser(ctx context.Context, id int64) error
}

// AuthUseCase проверяет учетные данные и токены.
type AuthUseCase interface {
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)

	IssueToken(ctx context.Context, username, password string) (string, time.Time, error)

	ValidateToken(ctx context.Context, token string) (*services.Claims, error)
}
