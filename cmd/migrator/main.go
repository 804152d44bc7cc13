// Package main applies the storefront database migrations.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abgdnv/storefront/pkg/bootstrap"
	"github.com/abgdnv/storefront/pkg/config"
	"github.com/abgdnv/storefront/pkg/config/configloader"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const serviceName = "storefront"

// migratorConfig is the subset of the service configuration the migrator needs.
type migratorConfig struct {
	Database config.DatabaseConfig `koanf:"database"`
	Log      config.LogConfig      `koanf:"log"`
}

func (c *migratorConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

type migrationLogger struct {
	logger *slog.Logger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l migrationLogger) Verbose() bool {
	return true
}

func main() {
	down := pflag.BoolP("down", "d", false, "roll back all migrations")
	steps := pflag.IntP("steps", "n", 0, "apply only n migrations; negative values roll back")
	path := pflag.StringP("migrations-path", "m", "", "migrations directory, overrides database.migrations")
	pflag.Parse()

	cfg, err := configloader.Load[*migratorConfig](serviceName)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	logger := bootstrap.NewLogger(cfg.Log.Level)
	if *path != "" {
		cfg.Database.Migrations = *path
	}

	if err := migrateDB(cfg.Database, *down, *steps, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func migrateDB(cfg config.DatabaseConfig, down bool, steps int, logger *slog.Logger) error {
	m, err := migrate.New("file://"+cfg.Migrations, cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	m.Log = migrationLogger{logger: logger}

	switch {
	case steps != 0:
		err = m.Steps(steps)
	case down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.Log.Printf("no migrations to apply")
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
