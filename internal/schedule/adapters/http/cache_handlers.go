package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"transportschedule/pkg/logger"
)

// PageCounter сообщает число закэшированных страниц одного вида.
type PageCounter interface {
	CachedPages(ctx context.Context) (int, error)
}

// CacheHandler показывает состояние кэша списков.
type CacheHandler struct {
	counters map[string]PageCounter
}

// NewCacheHandler создает обработчик; ключи counters попадают в ответ как есть.
func NewCacheHandler(counters map[string]PageCounter) *CacheHandler {
	return &CacheHandler{counters: counters}
}

// Pages возвращает число закэшированных страниц по видам, например {"buses": 2, "trains": 0}.
func (h *CacheHandler) Pages(ctx fiber.Ctx) error {
	log := logger.Log(ctx.Context()).With(zap.String("handler", "CacheHandler.Pages"))

	result := make(fiber.Map, len(h.counters))
	for name, counter := range h.counters {
		count, err := counter.CachedPages(ctx.Context())
		if err != nil {
			log.Warn(ctx.Context(), "failed to count cached pages", zap.String("kind", name), zap.Error(err))
			return handleError(ctx, err)
		}
		result[name] = count
	}

	if err := ctx.JSON(result); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
