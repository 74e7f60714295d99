// Package entities содержит доменные сущности расписания и ошибки домена.
package entities

import (
	"errors"
	"fmt"
)

// Ошибки домена.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrValidation       = errors.New("validation failed")
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrEmptyCity        = errors.New("city name cannot be empty")
	ErrNegativePrice    = errors.New("price must be non-negative")
	ErrPriceTooHigh     = errors.New("price exceeds the maximum")
	ErrTooManyStops     = errors.New("too many intermediate stops")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrInvalidRole      = errors.New("invalid role")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("insufficient role")
)

// Виды сущностей для NotFoundError.
const (
	KindBus   = "bus"
	KindTrain = "train"
	KindUser  = "user"
)

// NotFoundError сообщает об отсутствии сущности Kind с идентификатором ID.
type NotFoundError struct {
	Kind string
	ID   int64
}

// NewNotFoundError создает ошибку отсутствия сущности.
func NewNotFoundError(kind string, id int64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError оборачивает нарушение правил ввода.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}
