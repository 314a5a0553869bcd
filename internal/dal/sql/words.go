package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

func (r *Repository) CreateWordPair(ctx context.Context, wp dal.WordPair) (*dal.WordPair, error) {
	if wp.UserID == "" {
		return nil, errors.New("user id is required")
	}

	now := r.now()
	if wp.ID == "" {
		wp.ID = uuid.NewString()
	}
	if wp.Sentences == nil {
		wp.Sentences = []string{}
	}
	wp.NextRepetitionDate = wp.NextRepetitionDate.UTC()
	wp.CreatedAt = now
	wp.UpdatedAt = now

	sentences, err := marshalSentences(wp.Sentences)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.queries.InsertWordPairQuery(wp, sentences).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.client.ExecContext(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("insert word pair: %w", err)
	}

	r.log.DebugContext(ctx, "word pair inserted", "id", wp.ID, "user_id", wp.UserID)
	return &wp, nil
}

func (r *Repository) FindDueWordPairs(ctx context.Context, userID string, now time.Time) ([]dal.WordPair, error) {
	sql, args, err := r.queries.FindDueWordPairsQuery(userID, now.UTC()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	res, err := r.queryWordPairs(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find due word pairs: %w", err)
	}
	return res, nil
}

func (r *Repository) CountDueWordPairs(ctx context.Context, userID string, now time.Time) (int, error) {
	sql, args, err := r.queries.CountDueWordPairsQuery(userID, now.UTC()).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int
	if err = r.client.QueryRowContext(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due word pairs: %w", err)
	}
	return count, nil
}

func (r *Repository) FindWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) ([]dal.WordPair, error) {
	selectQuery, _ := r.queries.FindWordPairsQuery(userID, filter)

	sql, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	res, err := r.queryWordPairs(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find word pairs: %w", err)
	}
	return res, nil
}

func (r *Repository) CountWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) (int, error) {
	_, countQuery := r.queries.FindWordPairsQuery(userID, filter)

	sql, args, err := countQuery.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err = r.client.QueryRowContext(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count word pairs: %w", err)
	}
	return total, nil
}

func (r *Repository) FindWordPair(ctx context.Context, userID, id string) (*dal.WordPair, error) {
	sqlQuery, args, err := r.queries.FindWordPairQuery(userID, id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	wp, err := hydrateWordPair(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("find word pair: %w", err)
	}
	return wp, nil
}

func (r *Repository) UpdateWordPair(ctx context.Context, userID, id string, patch dal.WordPairPatch) (*dal.WordPair, error) {
	if patch.IsEmpty() {
		return r.FindWordPair(ctx, userID, id)
	}

	var sentences *string
	if patch.Sentences != nil {
		s, err := marshalSentences(*patch.Sentences)
		if err != nil {
			return nil, err
		}
		sentences = &s
	}
	if patch.NextRepetitionDate != nil {
		utc := patch.NextRepetitionDate.UTC()
		patch.NextRepetitionDate = &utc
	}

	sqlQuery, args, err := r.queries.UpdateWordPairQuery(userID, id, patch, sentences, r.now()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	wp, err := hydrateWordPair(r.client.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dal.ErrNotFound
		}
		return nil, fmt.Errorf("update word pair: %w", err)
	}
	return wp, nil
}

func (r *Repository) WordPairExists(ctx context.Context, userID, sourceWord string) (bool, error) {
	sqlQuery, args, err := r.queries.WordPairExistsQuery(userID, sourceWord).ToSql()
	if err != nil {
		return false, fmt.Errorf("build select query: %w", err)
	}

	var one int
	if err = r.client.QueryRowContext(ctx, sqlQuery, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check word pair exists: %w", err)
	}
	return true, nil
}

func (r *Repository) queryWordPairs(ctx context.Context, query string, args ...any) ([]dal.WordPair, error) {
	rows, err := r.client.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]dal.WordPair, 0)
	for rows.Next() {
		wp, err := hydrateWordPair(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *wp)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate word pairs: %w", rows.Err())
	}

	return res, nil
}

func hydrateWordPair(row interface {
	Scan(dest ...any) error
}) (*dal.WordPair, error) {
	var (
		wp        dal.WordPair
		sentences string
	)
	err := row.Scan(
		&wp.ID,
		&wp.UserID,
		&wp.SourceWord,
		&wp.Translation,
		&sentences,
		&wp.Repetitions,
		&wp.MaxRepetitions,
		&wp.RepetitionInterval,
		&wp.NextRepetitionDate,
		&wp.CreatedAt,
		&wp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan word pair: %w", err)
	}

	if err = json.Unmarshal([]byte(sentences), &wp.Sentences); err != nil {
		return nil, fmt.Errorf("unmarshal sentences: %w", err)
	}
	if wp.Sentences == nil {
		wp.Sentences = []string{}
	}

	return &wp, nil
}

func marshalSentences(sentences []string) (string, error) {
	if sentences == nil {
		sentences = []string{}
	}
	data, err := json.Marshal(sentences)
	if err != nil {
		return "", fmt.Errorf("marshal sentences: %w", err)
	}
	return string(data), nil
}
