package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/adapters/cache"
	httpServer "transportschedule/internal/schedule/adapters/http"
	"transportschedule/internal/schedule/adapters/postgres"
	"transportschedule/internal/schedule/adapters/services"
	"transportschedule/internal/schedule/app"
	"transportschedule/internal/schedule/config"
	"transportschedule/internal/schedule/db"
	"transportschedule/pkg/db/redis"
	"transportschedule/pkg/logger"
	"transportschedule/pkg/shutdown"
)

// Константы для сообщений об ошибках.
const (
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDatabase         = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrApplyMigrations      = "failed to apply migrations"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "schedule service started"
	LogServiceShutdownDone = "schedule service shutdown complete"
	LogMigrationsDone      = "migrations applied"
	LogInitCache           = "initializing cache"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingRedis        = "closing Redis connection"
	LogClosingDatabase     = "closing database connection"
)

const (
	flagEnvFile    = "env-file"
	flagMigrations = "migrations"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "schedule",
		Short:         "Bus and train schedule service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String(flagEnvFile, "deploy/.env", "path to .env file")
	cmd.PersistentFlags().String(flagMigrations, "", "migrations directory (overrides SCHEDULE_MIGRATIONS_DIR)")

	cmd.AddCommand(newServeCommand(), newMigrateCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := db.Migrate(ctx, &cfg.Postgres, cfg.Postgres.MigrationsDir); err != nil {
				logger.Log(ctx).Error(ctx, ErrApplyMigrations, zap.Error(err))
				return err
			}
			logger.Log(ctx).Info(ctx, LogMigrationsDone)
			return nil
		},
	}
}

// loadConfig читает конфигурацию и переключает глобальный logger на ее настройки.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()
	log := logger.Log(ctx)

	envFile, _ := cmd.Flags().GetString(flagEnvFile)
	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrLoadConfig, err)
	}

	if dir, _ := cmd.Flags().GetString(flagMigrations); dir != "" {
		cfg.Postgres.MigrationsDir = dir
	}

	finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
	if err != nil {
		log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInitLoggerWithConfig, err)
	}
	logger.SetGlobalLogger(finalLogger)

	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Log(ctx)

	log.Info(ctx, LogServiceStarted,
		zap.String("environment", string(cfg.Logging.GetEnvironment())),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("startup_time", time.Now().Format(time.RFC3339)))

	database, err := db.New(ctx, &cfg.Postgres, cfg.Postgres.MigrationsDir)
	if err != nil {
		log.Error(ctx, ErrInitDatabase, zap.Error(err))
		return err
	}

	log.Info(ctx, LogInitCache, zap.String("address", cfg.Redis.ClientConfig().Addr()))
	redisClient, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
	if err != nil {
		log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
		database.Close(ctx)
		return err
	}
	store := cache.NewRedisStore(redisClient)

	log.Info(ctx, LogInitServices)
	repos := postgres.NewRepositoryFactory(database.Pool())
	svcs := services.NewServiceFactory(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer, cfg.JWT.BCryptCost)

	buses := app.NewBusUseCase(repos.BusRepository(), store, app.CacheSettings{
		Keys: app.CacheKeys{EntityPrefix: cfg.Cache.BusPrefix, PagePrefix: cfg.Cache.BusPagePrefix},
		TTL:  cfg.Cache.TTL,
	})
	trains := app.NewTrainUseCase(repos.TrainRepository(), store, app.CacheSettings{
		Keys: app.CacheKeys{EntityPrefix: cfg.Cache.TrainPrefix, PagePrefix: cfg.Cache.TrainPagePrefix},
		TTL:  cfg.Cache.TTL,
	})
	users := app.NewUserUseCase(repos.UserRepository(), svcs.PasswordService())
	auth := app.NewAuthUseCase(repos.UserRepository(), svcs.PasswordService(), svcs.TokenService())

	log.Info(ctx, LogInitHTTPServer)
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	httpServer.SetupRouter(fiberApp, httpServer.Services{
		Buses:  buses,
		Trains: trains,
		Users:  users,
		Auth:   auth,
	}, httpServer.PageSettings{
		DefaultSize: cfg.Cache.DefaultPageSize,
		MaxSize:     cfg.Cache.MaxPageSize,
	})

	log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
	go func() {
		if err := fiberApp.Listen(cfg.HTTP.GetAddress()); err != nil {
			log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
		}
	}()

	shutdown.Wait(ctx, cfg.Shutdown.Timeout,
		func(ctx context.Context) error {
			log.Info(ctx, LogStoppingHTTP)
			return fiberApp.ShutdownWithContext(ctx)
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingRedis)
			return redisClient.Close()
		},
		func(ctx context.Context) error {
			log.Info(ctx, LogClosingDatabase)
			database.Close(ctx)
			return nil
		},
	)

	logger.Log(ctx).Info(ctx, LogServiceShutdownDone)
	return nil
}
