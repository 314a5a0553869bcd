package dal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypePostgres DBType = "postgres"
)

var ErrNotFound = errors.New("not found")

type (
	DBType string

	WordPairsRepository interface {
		CreateWordPair(ctx context.Context, wp WordPair) (*WordPair, error)
		FindDueWordPairs(ctx context.Context, userID string, now time.Time) ([]WordPair, error)
		CountDueWordPairs(ctx context.Context, userID string, now time.Time) (int, error)
		FindWordPairs(ctx context.Context, userID string, filter WordPairsFilter) ([]WordPair, error)
		CountWordPairs(ctx context.Context, userID string, filter WordPairsFilter) (int, error)
		FindWordPair(ctx context.Context, userID, id string) (*WordPair, error)
		// UpdateWordPair returns ErrNotFound if there is no pair with the id owned by the user.
		UpdateWordPair(ctx context.Context, userID, id string, patch WordPairPatch) (*WordPair, error)
		WordPairExists(ctx context.Context, userID, sourceWord string) (bool, error)
	}
)

func ParseDBType(s string) (DBType, error) {
	switch DBType(s) {
	case DBTypeSQLite, DBTypePostgres:
		return DBType(s), nil
	default:
		return "", fmt.Errorf("unsupported db type %q", s)
	}
}

// DriverName is the database/sql driver registered for the db type.
func (t DBType) DriverName() string {
	if t == DBTypePostgres {
		return "pgx"
	}
	return "sqlite"
}
