// Package sqlite is the file-backed store used when the dev server should
// survive restarts. Queries are traced through otelsql and logged through
// sqldb-logger with a zerolog adapter.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
)

// DB wraps the sql handle together with the squirrel builder every
// repository in this package shares.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens (creating if needed) the sqlite database at DATABASE_PATH and
// runs pending migrations from MIGRATIONS_PATH.
func NewDB() (*DB, error) {
	dbPath := os.Getenv("DATABASE_PATH")

	if dbPath == "" {
		dbPath = "taskdeck.db"
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")

	if migrationsPath == "" {
		migrationsPath = "db/migrations"
	}

	migrationDB, err := sql.Open("sqlite3", dbPath)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(migrationDB, migrationsPath); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open("sqlite3", dbPath,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("taskdeck"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logged := sqldblogger.OpenDriver(dbPath, sqlDB.Driver(), zerologadapter.New(logger))

	return Wrap(logged), nil
}

// Wrap builds a DB around an already-open handle. Tests use it with an
// in-memory database.
func Wrap(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

// RunMigrations applies every pending migration under migrationsPath.
func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"sqlite3",
		driver,
	)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
