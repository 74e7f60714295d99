package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"SCHEDULE_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"SCHEDULE_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SCHEDULE_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SCHEDULE_HTTP_WRITE_TIMEOUT" env-default:"10s"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig содержит настройки токенов доступа и хеширования паролей.
type JWTConfig struct {
	SecretKey      string        `yaml:"secret_key" env:"SCHEDULE_JWT_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"SCHEDULE_JWT_ACCESS_TOKEN_TTL" env-default:"1h"`
	Issuer         string        `yaml:"issuer" env:"SCHEDULE_JWT_ISSUER" env-default:"transport-schedule"`
	BCryptCost     int           `yaml:"bcrypt_cost" env:"SCHEDULE_BCRYPT_COST" env-default:"10"`
}

// CacheConfig содержит префиксы ключей, время жизни записей кэша и размеры страниц.
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl" env:"SCHEDULE_CACHE_TTL" env-default:"30m"`
	BusPrefix       string        `yaml:"bus_prefix" env:"SCHEDULE_CACHE_BUS_PREFIX" env-default:"Bus:"`
	BusPagePrefix   string        `yaml:"bus_page_prefix" env:"SCHEDULE_CACHE_BUS_PAGE_PREFIX" env-default:"busesPage:"`
	TrainPrefix     string        `yaml:"train_prefix" env:"SCHEDULE_CACHE_TRAIN_PREFIX" env-default:"Train:"`
	TrainPagePrefix string        `yaml:"train_page_prefix" env:"SCHEDULE_CACHE_TRAIN_PAGE_PREFIX" env-default:"trainsPage:"`
	DefaultPageSize int           `yaml:"default_page_size" env:"SCHEDULE_CACHE_DEFAULT_PAGE_SIZE" env-default:"10"`
	MaxPageSize     int           `yaml:"max_page_size" env:"SCHEDULE_CACHE_MAX_PAGE_SIZE" env-default:"100"`
}
