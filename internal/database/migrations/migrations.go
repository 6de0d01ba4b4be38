package migrations

import (
	"bannerapi/pkg/lib/sl"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// Up applies every pending migration for driverName to db. The schema files
// differ per dialect, so each driver reads its own directory.
func Up(ctx context.Context, log *slog.Logger, db *sql.DB, driverName string) error {
	const op = "database.migrations.Up"

	log = log.With(
		slog.String("op", op),
		slog.String("driver", driverName),
	)

	var (
		instance database.Driver
		err      error
	)
	switch driverName {
	case "postgres":
		// a dedicated conn keeps the advisory lock on one session and is
		// returned to the pool afterwards; closing the migrator would close db
		conn, connErr := db.Conn(ctx)
		if connErr != nil {
			return fmt.Errorf("%s: %w", op, connErr)
		}
		defer conn.Close()
		instance, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
	case "sqlite":
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return fmt.Errorf("%s: unsupported driver %q", op, driverName)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	source, err := iofs.New(migrationsFS, driverName)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, instance)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema is up to date")
			return nil
		}
		log.Error("failed to apply migrations", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("migrations applied", slog.Uint64("version", uint64(version)))

	return nil
}
