package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"appliance-store/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// ConnURL builds the postgres:// URL shared by the pool and golang-migrate
func ConnURL(config utils.DatabaseConfig) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.User, config.Password),
		Host:     net.JoinHostPort(config.Host, config.Port),
		Path:     "/" + config.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// RunMigrations applies every pending up migration from config.MigrationsPath
func RunMigrations(config utils.DatabaseConfig, log *zap.Logger) error {
	migrator, err := migrate.New("file://"+config.MigrationsPath, ConnURL(config))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer migrator.Close()

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, _ := migrator.Version()
	log.Info("Migrations applied", zap.Uint("version", version))
	return nil
}
