package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// DefaultMigrationsDir — каталог миграций относительно рабочей директории.
const DefaultMigrationsDir = "./migrations"

// RunMigrations выполняет миграции базы данных PostgreSQL с помощью golang-migrate.
//
// Если миграции не требуются (ErrNoChange), сообщает об этом в логах.
func RunMigrations(dsn, dir string, logger *zap.Logger) error {
	if dir == "" {
		dir = DefaultMigrationsDir
	}
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	logger.Info("Applying migrations", zap.String("dir", dir))

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No migrations to apply, database is up-to-date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Migrations applied successfully")
	return nil
}
