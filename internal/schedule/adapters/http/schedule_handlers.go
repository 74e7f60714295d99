// Package http содержит HTTP-обработчики сервиса расписаний на fiber.
package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/adapters/http/dto"
	"transportschedule/internal/schedule/adapters/http/middleware"
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerGet    = "handling get request"
	LogHandlerList   = "handling list request"
	LogHandlerCreate = "handling create request"
	LogHandlerUpdate = "handling update request"
	LogHandlerDelete = "handling delete request"
	LogHandlerRoutes = "handling routes request"
	LogHandlerSearch = "handling search request"
)

type scheduleRequest[T any] interface {
	Validate() error
	ToEntity() *T
}

// ScheduleHandler обслуживает CRUD одного вида рейсов.
type ScheduleHandler[T any, Req scheduleRequest[T], Resp any] struct {
	kind       string
	useCase    api.ScheduleUseCase[T]
	toResponse func(*T) Resp
	pages      PageSettings
}

// NewBusHandler создает обработчик автобусных рейсов.
func NewBusHandler(useCase api.BusUseCase, pages PageSettings) *ScheduleHandler[entities.Bus, dto.BusRequest, dto.BusResponse] {
	return &ScheduleHandler[entities.Bus, dto.BusRequest, dto.BusResponse]{
		kind:       entities.KindBus,
		useCase:    useCase,
		toResponse: dto.NewBusResponse,
		pages:      pages,
	}
}

func (h *ScheduleHandler[T, Req, Resp]) log(ctx fiber.Ctx, handler string) *logger.Logger {
	log := logger.Log(ctx.Context()).With(zap.String("handler", handler), zap.String("kind", h.kind))
	if principal, ok := middleware.PrincipalFrom(ctx); ok {
		log = log.With(zap.String("actor", principal.Username))
	}
	return log
}

// Get возвращает рейс по id.
func (h *ScheduleHandler[T, Req, Resp]) Get(ctx fiber.Ctx) error {
	log := h.log(ctx, "Get")
	log.Debug(ctx.Context(), LogHandlerGet)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	entry, err := h.useCase.Get(ctx.Context(), id)
	if err != nil {
		log.Debug(ctx.Context(), "failed to get entry", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(h.toResponse(entry)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// List возвращает страницу рейсов.
func (h *ScheduleHandler[T, Req, Resp]) List(ctx fiber.Ctx) error {
	log := h.log(ctx, "List")
	log.Debug(ctx.Context(), LogHandlerList)

	pageNumber, pageSize, ok := parsePage(ctx, h.pages)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidPagination)
	}

	page, err := h.useCase.List(ctx.Context(), pageNumber, pageSize)
	if err != nil {
		log.Error(ctx.Context(), "failed to list entries", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(dto.NewPageResponse(page, h.toResponse)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Create добавляет рейс.
func (h *ScheduleHandler[T, Req, Resp]) Create(ctx fiber.Ctx) error {
	log := h.log(ctx, "Create")
	log.Debug(ctx.Context(), LogHandlerCreate)

	req, err := bindRequest[T, Req](ctx)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	created, err := h.useCase.Add(ctx.Context(), (*req).ToEntity())
	if err != nil {
		log.Error(ctx.Context(), "failed to create entry", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(h.toResponse(created)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Update заменяет поля рейса id.
func (h *ScheduleHandler[T, Req, Resp]) Update(ctx fiber.Ctx) error {
	log := h.log(ctx, "Update")
	log.Debug(ctx.Context(), LogHandlerUpdate)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	req, err := bindRequest[T, Req](ctx)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}

	updated, err := h.useCase.Update(ctx.Context(), id, (*req).ToEntity())
	if err != nil {
		log.Debug(ctx.Context(), "failed to update entry", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(h.toResponse(updated)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Delete удаляет рейс id.
func (h *ScheduleHandler[T, Req, Resp]) Delete(ctx fiber.Ctx) error {
	log := h.log(ctx, "Delete")
	log.Debug(ctx.Context(), LogHandlerDelete)

	id, ok := parseID(ctx)
	if !ok {
		return badRequest(ctx, ErrMsgInvalidID)
	}

	if err := h.useCase.Delete(ctx.Context(), id); err != nil {
		log.Debug(ctx.Context(), "failed to delete entry", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Routes возвращает маршруты "откуда - куда" из города city.
func (h *ScheduleHandler[T, Req, Resp]) Routes(ctx fiber.Ctx) error {
	log := h.log(ctx, "Routes")
	log.Debug(ctx.Context(), LogHandlerRoutes)

	city := ctx.Query("city")
	if city == "" {
		return badRequest(ctx, ErrMsgMissingCity)
	}

	routes, err := h.useCase.RoutesFromCity(ctx.Context(), city)
	if err != nil {
		log.Error(ctx.Context(), "failed to find routes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(routes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// bindRequest читает и проверяет тело. nil без ошибки означает, что ответ 400 уже отправлен.
func bindRequest[T any, Req scheduleRequest[T]](ctx fiber.Ctx) (*Req, error) {
	var req Req
	if err := ctx.Bind().Body(&req); err != nil {
		logger.Log(ctx.Context()).Debug(ctx.Context(), ErrMsgInvalidRequestBody, zap.Error(err))
		return nil, badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := req.Validate(); err != nil {
		logger.Log(ctx.Context()).Debug(ctx.Context(), ErrMsgValidationFailed, zap.Error(err))
		return nil, validationFailed(ctx, err)
	}
	return &req, nil
}
