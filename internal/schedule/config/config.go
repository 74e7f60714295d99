// Package config содержит конфигурацию сервиса расписаний.
package config

import (
	"context"
	"time"

	"go.uber.org/zap"

	pkgconfig "transportschedule/pkg/config"
	"transportschedule/pkg/logger"
)

// ServiceName - имя сервиса в логах.
const ServiceName = "schedule"

// LogConfigLoaded - сообщение о загруженной конфигурации.
const LogConfigLoaded = "schedule configuration"

// Config представляет полную конфигурацию сервиса.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Cache    CacheConfig    `yaml:"cache"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
}

// Load читает конфигурацию из envPath (если файл есть) и переменных окружения SCHEDULE_*.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, LogConfigLoaded,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.ClientConfig().Addr()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("shutdown_timeout", cfg.Shutdown.Timeout))

	return cfg, nil
}

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"SCHEDULE_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"SCHEDULE_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment возвращает режим работы логгера.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	if c.Mode == string(logger.Production) {
		return logger.Production
	}
	return logger.Development
}

// ShutdownConfig содержит настройки корректного завершения.
type ShutdownConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"SCHEDULE_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s"`
}
