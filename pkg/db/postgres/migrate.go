package postgres

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"transportschedule/pkg/logger"
)

// Константы для сообщений об ошибках миграций.
const (
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrResolveMigrationsPath   = "failed to resolve migrations path"
)

// MigrationsSource превращает путь к каталогу миграций в file:// URL.
func MigrationsSource(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return "file://" + dir, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrResolveMigrationsPath, err)
	}
	return "file://" + absPath, nil
}

// MigrateDSN применяет миграции из каталога dir к базе по URL dsn.
func MigrateDSN(ctx context.Context, dsn string, dir string) error {
	log := logger.Log(ctx)

	source, err := MigrationsSource(dir)
	if err != nil {
		log.Error(ctx, ErrResolveMigrationsPath, zap.Error(err), zap.String("path", dir))
		return err
	}

	m, err := migrate.New(source, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err), zap.String("path", source))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied, zap.String("path", source))
	return nil
}
