package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/repositories"
	svc "transportschedule/internal/schedule/ports/services"
	"transportschedule/pkg/logger"
)

const (
	methodGetUser    = "GetUser"
	methodListUsers  = "ListUsers"
	methodRegister   = "Register"
	methodUpdateUser = "UpdateUser"
	methodDeleteUser = "DeleteUser"

	msgStartRegistration = "starting user registration"
	msgUsernameExists    = "user with this username already exists"
	msgUserRegistered    = "user registered successfully"
	msgUserUpdated       = "user updated successfully"
	msgUserDeleted       = "user deleted successfully"
	msgUsersListed       = "users listed"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrUpdateUser        = "failed to update user"
	msgErrDeleteUser        = "failed to delete user"

	errCtxValidatingUser  = "validating user"
	errCtxCheckingUser    = "checking existing user"
	errCtxUsernameTaken   = "username already registered"
	errCtxHashingPassword = "hashing password"
	errCtxCreatingUser    = "creating user"
	errCtxFindingUser     = "finding user"
	errCtxListingUsers    = "listing users"
	errCtxUpdatingUser    = "updating user"
	errCtxDeletingUser    = "deleting user"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
}

// NewUserUseCase создает сервис учетных записей.
func NewUserUseCase(userRepo repositories.UserRepository, passwordSvc svc.PasswordService) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
	}
}

// GetUser возвращает пользователя по id.
func (u *UserUseCaseImpl) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := u.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Log(ctx).Debug(ctx, errCtxFindingUser,
			zap.String("method", methodGetUser), zap.Int64("userID", id), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (u *UserUseCaseImpl) ListUsers(ctx context.Context) ([]*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListUsers))

	users, err := u.userRepo.FindAll(ctx)
	if err != nil {
		log.Error(ctx, errCtxListingUsers, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}
	if users == nil {
		users = []*entities.User{}
	}

	log.Debug(ctx, msgUsersListed, zap.Int("count", len(users)))
	return users, nil
}

// Register создает пользователя с ролью USER и хешированным паролем.
func (u *UserUseCaseImpl) Register(ctx context.Context, input api.UserInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", input.Username))
	log.Debug(ctx, msgStartRegistration)

	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}

	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil {
		log.Debug(ctx, msgUsernameExists)
		return nil, fmt.Errorf("%s: %w", errCtxUsernameTaken, entities.ErrUsernameTaken)
	}

	hash, err := u.passwordSvc.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	created, err := u.userRepo.Create(ctx, &entities.User{
		Username:     username,
		PasswordHash: hash,
		Role:         entities.RoleUser,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", created.ID))
	return created, nil
}

// UpdateUser заменяет имя, пароль и роль пользователя id. Пароль хешируется заново.
func (u *UserUseCaseImpl) UpdateUser(ctx context.Context, id int64, input api.UserInput) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.Int64("userID", id))

	username := strings.TrimSpace(input.Username)
	if err := validateCredentials(username, input.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
	}
	role := entities.RoleUser
	if input.Role != "" {
		parsed, err := entities.ParseRole(string(input.Role))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingUser, err)
		}
		role = parsed
	}

	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing != nil && existing.ID != id {
		log.Debug(ctx, msgUsernameExists)
		return nil, fmt.Errorf("%s: %w", errCtxUsernameTaken, entities.ErrUsernameTaken)
	}

	hash, err := u.passwordSvc.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	updated, err := u.userRepo.Update(ctx, &entities.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		log.Debug(ctx, msgErrUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

// DeleteUser удаляет пользователя id.
func (u *UserUseCaseImpl) DeleteUser(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteUser), zap.Int64("userID", id))

	if err := u.userRepo.Delete(ctx, id); err != nil {
		log.Debug(ctx, msgErrDeleteUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	log.Info(ctx, msgUserDeleted)
	return nil
}

func validateCredentials(username, password string) error {
	if username == "" {
		return &entities.ValidationError{Field: "username", Err: entities.ErrEmptyUsername}
	}
	if password == "" {
		return &entities.ValidationError{Field: "password", Err: entities.ErrEmptyPassword}
	}
	return nil
}
