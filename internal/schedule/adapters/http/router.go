package http

import (
	"github.com/gofiber/fiber/v3"

	"transportschedule/internal/schedule/adapters/http/middleware"
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
)

// Services - сценарии, которые обслуживает HTTP API.
type Services struct {
	Buses  api.BusUseCase
	Trains api.TrainUseCase
	Users  api.UserUseCase
	Auth   api.AuthUseCase
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, services Services, pages PageSettings) {
	busHandler := NewBusHandler(services.Buses, pages)
	trainHandler := NewTrainHandler(services.Trains, pages)
	userHandler := NewUserHandler(services.Users)
	authHandler := NewAuthHandler(services.Auth)
	cacheHandler := NewCacheHandler(map[string]PageCounter{
		"buses":  services.Buses,
		"trains": services.Trains,
	})

	adminOnly := middleware.RequireRole(services.Auth, entities.RoleAdmin)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	apiGroup := app.Group("/api")

	apiGroup.Post("/auth/token", authHandler.IssueToken)

	buses := apiGroup.Group("/buses")
	buses.Get("/", busHandler.List)
	buses.Get("/route", busHandler.Routes)
	buses.Get("/:id", busHandler.Get)
	buses.Post("/", adminOnly(busHandler.Create))
	buses.Put("/:id", adminOnly(busHandler.Update))
	buses.Delete("/:id", adminOnly(busHandler.Delete))

	trains := apiGroup.Group("/trains")
	trains.Get("/", trainHandler.List)
	trains.Get("/route", trainHandler.Routes)
	trains.Get("/search", trainHandler.Search)
	trains.Get("/:id", trainHandler.Get)
	trains.Post("/", adminOnly(trainHandler.Create))
	trains.Put("/:id", adminOnly(trainHandler.Update))
	trains.Delete("/:id", adminOnly(trainHandler.Delete))

	users := apiGroup.Group("/users")
	users.Post("/", userHandler.Register)
	users.Get("/", adminOnly(userHandler.List))
	users.Get("/:id", adminOnly(userHandler.Get))
	users.Put("/:id", adminOnly(userHandler.Update))
	users.Delete("/:id", adminOnly(userHandler.Delete))

	apiGroup.Get("/cache/pages", adminOnly(cacheHandler.Pages))

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
