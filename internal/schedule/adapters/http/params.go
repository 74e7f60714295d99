package http

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// PageSettings - параметры постраничной выдачи по умолчанию.
type PageSettings struct {
	DefaultSize int
	MaxSize     int
}

func parseID(ctx fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage читает page (с нуля) и size. Размер больше MaxSize урезается.
func parsePage(ctx fiber.Ctx, settings PageSettings) (int, int, bool) {
	page, err := strconv.Atoi(ctx.Query("page", "0"))
	if err != nil || page < 0 {
		return 0, 0, false
	}

	size, err := strconv.Atoi(ctx.Query("size", strconv.Itoa(settings.DefaultSize)))
	if err != nil || size < 1 {
		return 0, 0, false
	}
	if settings.MaxSize > 0 && size > settings.MaxSize {
		size = settings.MaxSize
	}

	return page, size, true
}
