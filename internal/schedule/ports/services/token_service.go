package services

import (
	"context"
	"time"

	"transportschedule/internal/schedule/domain/entities"
)

// Claims - данные, извлеченные из токена доступа.
type Claims struct {
	UserID   int64
	Username string
	Role     entities.Role
}

// TokenService выпускает и проверяет токены доступа.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (*Claims, error)
}
