package middleware

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LocalsPrincipal = "principal"

	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidAuthFormat  = "invalid authorization header format"
	ErrorInvalidCredentials = "invalid credentials"
	ErrorInsufficientRole   = "insufficient role"
	ErrorAuthFailed         = "authentication failed"

	schemeBasic  = "Basic "
	schemeBearer = "Bearer "
	realm        = `Basic realm="transport-schedule"`
)

// Principal - аутентифицированный вызывающий.
type Principal struct {
	UserID   int64
	Username string
	Role     entities.Role
}

// PrincipalFrom возвращает вызывающего, сохраненного RequireRole.
func PrincipalFrom(ctx fiber.Ctx) (*Principal, bool) {
	principal, ok := ctx.Locals(LocalsPrincipal).(*Principal)
	return principal, ok
}

// RequireRole оборачивает обработчик: вызывающий должен предъявить HTTP Basic
// (пароль проверяется по хранилищу) или Bearer JWT и иметь роль role.
func RequireRole(auth api.AuthUseCase, role entities.Role) func(fiber.Handler) fiber.Handler {
	return func(next fiber.Handler) fiber.Handler {
		return func(ctx fiber.Ctx) error {
			principal, ok, err := authenticate(ctx, auth)
			if !ok {
				return err
			}

			if principal.Role != role {
				logger.Log(ctx.Context()).Debug(ctx.Context(), ErrorInsufficientRole,
					zap.String("username", principal.Username), zap.String("role", string(principal.Role)))
				return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": ErrorInsufficientRole,
				})
			}

			ctx.Locals(LocalsPrincipal, principal)
			return next(ctx)
		}
	}
}

// authenticate разбирает заголовок Authorization. ok=false означает, что ответ уже отправлен.
func authenticate(ctx fiber.Ctx, auth api.AuthUseCase) (*Principal, bool, error) {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
	log.Debug(requestCtx, LogAuthMiddleware)

	header := ctx.Get(fiber.HeaderAuthorization)
	if header == "" {
		log.Debug(requestCtx, ErrorNoAuthHeader)
		return nil, false, unauthorized(ctx, ErrorNoAuthHeader)
	}

	var (
		principal *Principal
		err       error
	)
	switch {
	case strings.HasPrefix(header, schemeBasic):
		principal, err = basicPrincipal(ctx, auth, strings.TrimPrefix(header, schemeBasic))
	case strings.HasPrefix(header, schemeBearer):
		principal, err = bearerPrincipal(ctx, auth, strings.TrimPrefix(header, schemeBearer))
	default:
		log.Debug(requestCtx, ErrorInvalidAuthFormat)
		return nil, false, unauthorized(ctx, ErrorInvalidAuthFormat)
	}

	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) || errors.Is(err, entities.ErrInvalidToken) {
			log.Debug(requestCtx, ErrorInvalidCredentials, zap.Error(err))
			return nil, false, unauthorized(ctx, ErrorInvalidCredentials)
		}
		log.Error(requestCtx, ErrorAuthFailed, zap.Error(err))
		return nil, false, ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrorAuthFailed,
		})
	}

	return principal, true, nil
}

func basicPrincipal(ctx fiber.Ctx, auth api.AuthUseCase, encoded string) (*Principal, error) {
	username, password, ok := decodeBasic(encoded)
	if !ok {
		return nil, entities.ErrInvalidCredentials
	}

	user, err := auth.Authenticate(ctx.Context(), username, password)
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func bearerPrincipal(ctx fiber.Ctx, auth api.AuthUseCase, token string) (*Principal, error) {
	claims, err := auth.ValidateToken(ctx.Context(), strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

// DecodeBasicHeader разбирает значение заголовка "Basic <base64(user:pass)>".
func DecodeBasicHeader(header string) (string, string, bool) {
	if !strings.HasPrefix(header, schemeBasic) {
		return "", "", false
	}
	return decodeBasic(strings.TrimPrefix(header, schemeBasic))
}

func decodeBasic(encoded string) (string, string, bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	username, password, found := strings.Cut(string(raw), ":")
	if !found || username == "" {
		return "", "", false
	}
	return username, password, true
}

func unauthorized(ctx fiber.Ctx, message string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, realm)
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
