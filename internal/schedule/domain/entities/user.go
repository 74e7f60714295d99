package entities

import "strings"

// Role - роль учетной записи.
type Role string

// Поддерживаемые роли.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole разбирает роль без учета регистра.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", &ValidationError{Field: "role", Err: ErrInvalidRole}
	}
}

// User - учетная запись. Пароль хранится только в виде хеша.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}
