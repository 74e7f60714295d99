package logger

import (
	"context"

	"github.com/google/uuid"
)

// MaxRequestIDLength - предельная длина принимаемого извне идентификатора запроса.
const MaxRequestIDLength = 64

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// NewRequestIDContext кладет в контекст идентификатор, прошедший ResolveRequestID.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, ResolveRequestID(requestID))
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// GenerateRequestID генерирует новый идентификатор запроса.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ResolveRequestID возвращает входящий идентификатор, если он непустой, не длиннее
// MaxRequestIDLength и состоит из букв, цифр, '-', '_' и '.'; иначе новый UUID.
func ResolveRequestID(incoming string) string {
	if incoming == "" || len(incoming) > MaxRequestIDLength {
		return GenerateRequestID()
	}
	for _, r := range incoming {
		if !isRequestIDRune(r) {
			return GenerateRequestID()
		}
	}
	return incoming
}

func isRequestIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	default:
		return false
	}
}
