package http

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/adapters/http/dto"
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
)

const ErrMsgMissingCityPair = "cityFrom and cityTo parameters are required"

// TrainHandler обслуживает поезда, включая поиск по паре городов.
type TrainHandler struct {
	*ScheduleHandler[entities.Train, dto.TrainRequest, dto.TrainResponse]
	trains api.TrainUseCase
}

// NewTrainHandler создает обработчик поездов.
func NewTrainHandler(useCase api.TrainUseCase, pages PageSettings) *TrainHandler {
	return &TrainHandler{
		ScheduleHandler: &ScheduleHandler[entities.Train, dto.TrainRequest, dto.TrainResponse]{
			kind:       entities.KindTrain,
			useCase:    useCase,
			toResponse: dto.NewTrainResponse,
			pages:      pages,
		},
		trains: useCase,
	}
}

// Search ищет поезда, проходящие через cityFrom и cityTo.
func (h *TrainHandler) Search(ctx fiber.Ctx) error {
	log := h.log(ctx, "Search")
	log.Debug(ctx.Context(), LogHandlerSearch)

	cityFrom := ctx.Query("cityFrom")
	cityTo := ctx.Query("cityTo")
	if cityFrom == "" || cityTo == "" {
		return badRequest(ctx, ErrMsgMissingCityPair)
	}

	trains, err := h.trains.FindByCityPair(ctx.Context(), cityFrom, cityTo)
	if err != nil {
		log.Error(ctx.Context(), "failed to search trains", zap.Error(err))
		return handleError(ctx, err)
	}

	response := make([]dto.TrainResponse, 0, len(trains))
	for _, train := range trains {
		response = append(response, dto.NewTrainResponse(train))
	}

	if err := ctx.JSON(response); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
