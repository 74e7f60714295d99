package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
)

// UserRequest - тело запроса на регистрацию или изменение пользователя.
type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Validate проверяет поля запроса.
func (r UserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.In(
			string(entities.RoleUser), string(entities.RoleAdmin),
			"user", "admin",
		)),
	)
}

// ToInput преобразует запрос во входные данные сценария.
func (r UserRequest) ToInput() api.UserInput {
	return api.UserInput{
		Username: r.Username,
		Password: r.Password,
		Role:     entities.Role(r.Role),
	}
}

// UserResponse - представление пользователя без пароля.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewUserResponse строит ответ из сущности.
func NewUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

// TokenResponse содержит выданный токен доступа.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
