package driver

import (
	"bannerapi/pkg/lib/sl"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not map to a bind type.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type SQLXConfig struct {
	DriverName     string
	DataSourceName string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
}

func PostgresDSN(host string, port int, user, password, dbname, sslmode string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)
}

func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
}

func (c *SQLXConfig) NewSQLXDatabase(log *slog.Logger) (*sqlx.DB, error) {
	const op = "database.driver.sqlx.NewSQLXDatabase"

	log = log.With(
		slog.String("op", op),
		slog.String("driver", c.DriverName),
	)

	db, err := sqlx.Open(c.DriverName, c.DataSourceName)
	if err != nil {
		log.Error("failed to open database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(
		"database parameters",
		slog.Int("max number of open connections", c.MaxOpenConns),
		slog.Int("max number of idle connections", c.MaxIdleConns),
		slog.Duration("max lifetime of open connection", c.MaxLifetime),
	)

	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.MaxLifetime)

	if err = db.Ping(); err != nil {
		log.Error("failed to ping database", sl.Err(err))
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}
