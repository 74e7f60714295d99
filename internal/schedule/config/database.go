package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"transportschedule/pkg/db/postgres"
	"transportschedule/pkg/db/redis"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host              string        `yaml:"host" env:"SCHEDULE_POSTGRES_HOST" env-default:"localhost"`
	Port              int           `yaml:"port" env:"SCHEDULE_POSTGRES_PORT" env-default:"5432"`
	User              string        `yaml:"user" env:"SCHEDULE_POSTGRES_USER" env-default:"postgres"`
	Password          string        `yaml:"password" env:"SCHEDULE_POSTGRES_PASSWORD" env-default:"postgres"`
	Database          string        `yaml:"database" env:"SCHEDULE_POSTGRES_DB" env-default:"schedule"`
	MinConn           int           `yaml:"min_conn" env:"SCHEDULE_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn           int           `yaml:"max_conn" env:"SCHEDULE_POSTGRES_MAX_CONN" env-default:"10"`
	HealthCheckPeriod time.Duration `yaml:"health_check_period" env:"SCHEDULE_POSTGRES_HEALTH_CHECK" env-default:"1m"`
	MigrationsDir     string        `yaml:"migrations_dir" env:"SCHEDULE_MIGRATIONS_DIR" env-default:"migrations/schedule"`
}

// GetDSN возвращает строку подключения к PostgreSQL.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     p.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// PoolOptions возвращает параметры пула соединений.
func (p *PostgresConfig) PoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MinConns:          p.MinConn,
		MaxConns:          p.MaxConn,
		HealthCheckPeriod: p.HealthCheckPeriod,
	}
}

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host         string        `yaml:"host" env:"SCHEDULE_REDIS_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"SCHEDULE_REDIS_PORT" env-default:"6379"`
	Password     string        `yaml:"password" env:"SCHEDULE_REDIS_PASSWORD" env-default:""`
	DB           int           `yaml:"db" env:"SCHEDULE_REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"SCHEDULE_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle      int           `yaml:"min_idle" env:"SCHEDULE_REDIS_MIN_IDLE" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"SCHEDULE_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SCHEDULE_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SCHEDULE_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SCHEDULE_REDIS_IDLE_TIMEOUT" env-default:"5m"`
}

// ClientConfig переводит настройки в конфигурацию клиента go-redis.
func (r *RedisConfig) ClientConfig() *redis.Config {
	return &redis.Config{
		Host:         r.Host,
		Port:         r.Port,
		Password:     r.Password,
		DB:           r.DB,
		PoolSize:     r.PoolSize,
		MinIdle:      r.MinIdle,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
		IdleTimeout:  r.IdleTimeout,
	}
}
