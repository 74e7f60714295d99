// Package db поднимает соединение с базой данных сервиса расписаний.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"transportschedule/internal/schedule/config"
	"transportschedule/pkg/db/postgres"
	"transportschedule/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing schedule database"
	LogDBInitialized     = "schedule database initialized successfully"
	LogMigrationStarting = "starting database migrations for schedule service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply schedule database migrations"
	ErrDBConnection = "failed to connect to schedule database"
)

// DB представляет соединение с базой данных сервиса расписаний.
type DB struct {
	database *postgres.Database
}

// Migrate применяет миграции из каталога migrationsDir.
func Migrate(ctx context.Context, cfg *config.PostgresConfig, migrationsDir string) error {
	logger.Log(ctx).Info(ctx, LogMigrationStarting, zap.String("migrations_dir", migrationsDir))
	if err := postgres.MigrateDSN(ctx, cfg.GetConnectionURL(), migrationsDir); err != nil {
		return fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}
	return nil
}

// New применяет миграции и открывает пул соединений.
func New(ctx context.Context, cfg *config.PostgresConfig, migrationsDir string) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	if err := Migrate(ctx, cfg, migrationsDir); err != nil {
		return nil, err
	}

	database, err := postgres.New(ctx, cfg.GetDSN(), cfg.PoolOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// Close закрывает пул.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
