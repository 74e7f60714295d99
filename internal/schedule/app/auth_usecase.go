package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/repositories"
	svc "transportschedule/internal/schedule/ports/services"
	"transportschedule/pkg/logger"
)

const (
	methodAuthenticate  = "Authenticate"
	methodIssueToken    = "IssueToken"
	methodValidateToken = "ValidateToken"

	msgLoginAttempt        = "authentication attempt"
	msgLoginNonExistent    = "authentication attempt with unknown username"
	msgInvalidPasswordAuth = "invalid password provided"
	msgUserAuthenticated   = "user authenticated"
	msgTokenIssued         = "access token issued"
	msgTokenRejected       = "access token rejected"

	msgErrFindingUser       = "error finding user by username"
	msgErrVerifyingPassword = "error verifying password"
	msgErrGenerateToken     = "failed to generate access token"

	errCtxInvalidCredentials = "invalid credentials"
	errCtxVerifyingPassword  = "verifying password"
	errCtxGeneratingToken    = "generating access token"
	errCtxValidatingToken    = "validating access token"
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Authenticate проверяет имя и пароль пользователя.
func (a *AuthUseCaseImpl) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("username", username))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, entities.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgInvalidPasswordAuth, zap.Int64("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, entities.ErrInvalidCredentials)
	}

	log.Debug(ctx, msgUserAuthenticated, zap.Int64("userID", user.ID))
	return user, nil
}

// IssueToken аутентифицирует пользователя и выпускает токен доступа.
func (a *AuthUseCaseImpl) IssueToken(ctx context.Context, username, password string) (string, time.Time, error) {
	log := logger.Log(ctx).With(zap.String("method", methodIssueToken), zap.String("username", username))

	user, err := a.Authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, err
	}

	token, expiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w", errCtxGeneratingToken, err)
	}

	log.Info(ctx, msgTokenIssued, zap.Int64("userID", user.ID), zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// ValidateToken проверяет токен доступа и возвращает его данные.
func (a *AuthUseCaseImpl) ValidateToken(ctx context.Context, token string) (*svc.Claims, error) {
	claims, err := a.tokenSvc.ValidateAccessToken(ctx, token)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgTokenRejected, zap.String("method", methodValidateToken), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, err)
	}
	return claims, nil
}
