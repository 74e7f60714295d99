// Package services определяет порты вспомогательных сервисов.
package services

import "context"

// PasswordService хеширует и проверяет пароли.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)

	Verify(ctx context.Context, password, hash string) (bool, error)
}
