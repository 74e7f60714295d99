package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	svc "transportschedule/internal/schedule/ports/services"
	"transportschedule/pkg/logger"
)

const (
	methodGenerateAccessToken = "GenerateAccessToken"
	methodValidateAccessToken = "ValidateAccessToken"
	msgGeneratingAccessToken  = "generating access token"
	msgValidatingToken        = "validating token"
	msgTokenGenerated         = "token generated successfully"
	msgTokenValidated         = "token validated successfully"
	msgInvalidToken           = "invalid token format"
	msgTokenExpired           = "token has expired"
	//nolint:gosec
	errSigningToken = "error signing token"
	//nolint:gosec
	errParsingToken       = "error parsing token"
	errCtxGeneratingToken = "generating token"
	errCtxParsingToken    = "parsing token"
	errCtxValidatingToken = "validating token"
)

var (
	// ErrInvalidAlgorithm - токен подписан не HMAC.
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	// ErrGeneratingToken - токен не удалось подписать.
	ErrGeneratingToken = errors.New("failed to generate token")
)

// Claims - полезная нагрузка токена доступа.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// ServiceJWT реализует TokenService на HS256.
type ServiceJWT struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(secretKey string, accessTokenTTL time.Duration, issuer string) svc.TokenService {
	return &ServiceJWT{
		secretKey: []byte(secretKey),
		ttl:       accessTokenTTL,
		issuer:    issuer,
	}
}

// GenerateAccessToken генерирует JWT токен доступа для пользователя.
func (s *ServiceJWT) GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodGenerateAccessToken),
		zap.Int64("userID", user.ID),
	)
	log.Debug(ctx, msgGeneratingAccessToken)

	if len(s.secretKey) == 0 {
		log.Error(ctx, "empty secret key provided")
		return "", time.Time{}, fmt.Errorf("%s: %w: empty secret key", errCtxGeneratingToken, ErrGeneratingToken)
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxGeneratingToken, ErrGeneratingToken, err)
	}

	log.Debug(ctx, msgTokenGenerated, zap.Time("expiresAt", expiresAt))
	return tokenString, expiresAt, nil
}

// ValidateAccessToken проверяет подпись и срок действия токена.
func (s *ServiceJWT) ValidateAccessToken(ctx context.Context, tokenString string) (*svc.Claims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodValidateAccessToken))
	log.Debug(ctx, msgValidatingToken)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w: %w", errCtxValidatingToken, entities.ErrInvalidToken, err)
		}
		log.Debug(ctx, errParsingToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxParsingToken, entities.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		log.Debug(ctx, msgInvalidToken)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, entities.ErrInvalidToken)
	}

	role, err := entities.ParseRole(claims.Role)
	if err != nil || claims.UserID <= 0 {
		log.Debug(ctx, msgInvalidToken, zap.Int64("userID", claims.UserID), zap.String("role", claims.Role))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, entities.ErrInvalidToken)
	}

	log.Debug(ctx, msgTokenValidated, zap.Int64("userID", claims.UserID))
	return &svc.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
