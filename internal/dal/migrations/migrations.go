package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Up applies all pending migrations for the db type. The db is not closed afterwards.
func Up(db *sql.DB, dbType dal.DBType, log *slog.Logger) error {
	src, err := iofs.New(files, string(dbType))
	if err != nil {
		return fmt.Errorf("open migrations source: %w", err)
	}

	driver, err := databaseDriver(db, dbType)
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dbType), driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info("no new migrations to apply", "db_type", dbType)
	case err != nil:
		return fmt.Errorf("run migrations: %w", err)
	default:
		log.Info("migrations applied", "db_type", dbType)
	}

	return nil
}

func databaseDriver(db *sql.DB, dbType dal.DBType) (database.Driver, error) {
	switch dbType {
	case dal.DBTypeSQLite:
		return sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	case dal.DBTypePostgres:
		return pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	default:
		return nil, fmt.Errorf("unsupported db type %q", dbType)
	}
}
