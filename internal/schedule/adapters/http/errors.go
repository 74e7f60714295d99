package http

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v3"

	"transportschedule/internal/schedule/domain/entities"
)

// Сообщения об ошибках в ответах.
const (
	ErrMsgInvalidID          = "invalid id"
	ErrMsgInvalidPagination  = "invalid pagination parameters"
	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgValidationFailed   = "validation failed"
	ErrMsgMissingCity        = "city parameter is required"
	ErrMsgInternal           = "Internal server error"
	ErrMsgCacheUnavailable   = "cache unavailable"
)

// handleError отображает ошибку сценария на HTTP-статус.
func handleError(ctx fiber.Ctx, err error) error {
	status, message := statusFor(err)

	if sendErr := ctx.Status(status).JSON(fiber.Map{"error": message}); sendErr != nil {
		return fmt.Errorf("error sending %d response: %w", status, sendErr)
	}
	return nil
}

func statusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return fiber.StatusNotFound, notFoundMessage(err)
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, entities.ErrUsernameTaken):
		return fiber.StatusConflict, entities.ErrUsernameTaken.Error()
	case errors.Is(err, entities.ErrInvalidCredentials), errors.Is(err, entities.ErrInvalidToken):
		return fiber.StatusUnauthorized, entities.ErrInvalidCredentials.Error()
	case errors.Is(err, entities.ErrForbidden):
		return fiber.StatusForbidden, entities.ErrForbidden.Error()
	case errors.Is(err, entities.ErrCacheUnavailable):
		return fiber.StatusServiceUnavailable, ErrMsgCacheUnavailable
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, ErrMsgInternal
	}
}

func notFoundMessage(err error) string {
	var notFound *entities.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	return entities.ErrNotFound.Error()
}

func badRequest(ctx fiber.Ctx, message string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// validationFailed отвечает 400 с ошибками по полям.
func validationFailed(ctx fiber.Ctx, err error) error {
	body := fiber.Map{"error": ErrMsgValidationFailed}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		body["details"] = fieldErrs
	} else {
		body["details"] = err.Error()
	}

	if sendErr := ctx.Status(fiber.StatusBadRequest).JSON(body); sendErr != nil {
		return fmt.Errorf("failed to send validation response: %w", sendErr)
	}
	return nil
}
