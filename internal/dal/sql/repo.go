package sql

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

type (
	Client interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}

	Repository struct {
		client  Client
		queries *dal.Queries
		clock   func() time.Time
		log     *slog.Logger
	}
)

func NewRepository(client Client, dbType dal.DBType, log *slog.Logger) *Repository {
	return &Repository{
		client:  client,
		queries: dal.NewQueries(dbType),
		clock:   time.Now,
		log:     log,
	}
}

func (r *Repository) now() time.Time {
	return r.clock().UTC()
}
