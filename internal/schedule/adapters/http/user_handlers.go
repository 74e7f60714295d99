package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/adapters/http/dto"
	"transportschedule/internal/schedule/adapters/http/middleware"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerRegister   = "handling register request"
	LogHandlerGetUser    = "handling get user request"
	LogHandlerListUsers  = "handling list users request"
	LogHandlerUpdateUser = "handling update user request"
	LogHandlerDeleteUser = "handling delete user request"
	LogHandlerIssueToken = "handling token request"

	ErrMsgBasicRequired = "basic credentials required"
	tokenTypeBearer     = "Bearer"
)

// UserHandler обслуживает учетные записи.
type UserHandler struct {
	users api.UserUseCase
}

// NewUserHandler создает обработчик учетных записей.
func NewUserHandler(users api.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// Register регистрирует пользователя с ролью USER.
func (h *UserHandler) Register(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "UserHandler.Register"))
	log.Debug(ctx.Context(), LogHandlerRegister)

	req, ok, err := bindUserRequest(ctx)
	if !ok {
		return err
	}

	user, err := h.users.Register(ctx.Context(), req.ToInput())
	if err != nil {
		log.Debug(ctx.Context(), "failed to register user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Get возвращает пользователя по id.
func (h *UserHandler) Get(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "UserHandler.Get"))
	log.Debug(ctx.Context(), LogHandlerGetUser)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	user, err := h.users.GetUser(ctx.Context(), id)
	if err != nil {
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.NewUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// List возвращает всех пользователей.
func (h *UserHandler) List(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "UserHandler.List"))
	log.Debug(ctx.Context(), LogHandlerListUsers)

	users, err := h.users.ListUsers(ctx.Context())
	if err != nil {
		log.Error(ctx.Context(), "failed to list users", zap.Error(err))
		return handleError(ctx, err)
	}

	response := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, dto.NewUserResponse(user))
	}

	if err := ctx.JSON(response); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Update заменяет имя, пароль и роль пользователя id.
func (h *UserHandler) Update(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "UserHandler.Update"))
	log.Debug(ctx.Context(), LogHandlerUpdateUser)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	req, ok, err := bindUserRequest(ctx)
	if !ok {
		return err
	}

	user, err := h.users.UpdateUser(ctx.Context(), id, req.ToInput())
	if err != nil {
		log.Debug(ctx.Context(), "failed to update user", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.NewUserResponse(user)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Delete удаляет пользователя id.
func (h *UserHandler) Delete(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "UserHandler.Delete"))
	log.Debug(ctx.Context(), LogHandlerDeleteUser)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	if err := h.users.DeleteUser(ctx.Context(), id); err != nil {
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func bindUserRequest(ctx fiber.Ctx) (dto.UserRequest, bool, error) {
	var req dto.UserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return req, false, badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := req.Validate(); err != nil {
		return req, false, validationFailed(ctx, err)
	}
	return req, true, nil
}

// AuthHandler выдает токены доступа.
type AuthHandler struct {
	auth api.AuthUseCase
}

// NewAuthHandler создает обработчик выдачи токенов.
func NewAuthHandler(auth api.AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// IssueToken обменивает учетные данные HTTP Basic на JWT.
func (h *AuthHandler) IssueToken(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "AuthHandler.IssueToken"))
	log.Debug(ctx.Context(), LogHandlerIssueToken)

	username, password, ok := middleware.DecodeBasicHeader(ctx.Get(fiber.HeaderAuthorization))
	if !ok {
		ctx.Set(fiber.HeaderWWWAuthenticate, `Basic realm="transport-schedule"`)
		if err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": ErrMsgBasicRequired,
		}); err != nil {
			return fmt.Errorf("error sending response: %w", err)
		}
		return nil
	}

	token, expiresAt, err := h.auth.IssueToken(ctx.Context(), username, password)
	if err != nil {
		log.Debug(ctx.Context(), "failed to issue token", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresAt:   expiresAt,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
