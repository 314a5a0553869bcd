package testutil

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func Ptr[T any](v T) *T {
	return &v
}

// NewTestWordPair creates a word pair which is due at now and has no repetitions yet
func NewTestWordPair(userID, sourceWord, translation string, now time.Time) dal.WordPair {
	return dal.WordPair{
		ID:                 uuid.NewString(),
		UserID:             userID,
		SourceWord:         sourceWord,
		Translation:        translation,
		Sentences:          []string{},
		Repetitions:        0,
		MaxRepetitions:     5,
		RepetitionInterval: 24,
		NextRepetitionDate: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// MemoryWordPairsRepository keeps word pairs in memory and mirrors the SQL repository semantics.
type MemoryWordPairsRepository struct {
	mu    sync.RWMutex
	items map[string]dal.WordPair
}

func NewMemoryWordPairsRepository(pairs ...dal.WordPair) *MemoryWordPairsRepository {
	r := &MemoryWordPairsRepository{items: make(map[string]dal.WordPair, len(pairs))}
	for _, p := range pairs {
		r.items[p.ID] = clonePair(p)
	}
	return r
}

func (r *MemoryWordPairsRepository) CreateWordPair(ctx context.Context, wp dal.WordPair) (*dal.WordPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if wp.ID == "" {
		wp.ID = uuid.NewString()
	}
	if wp.Sentences == nil {
		wp.Sentences = []string{}
	}
	r.items[wp.ID] = clonePair(wp)
	res := clonePair(wp)
	return &res, nil
}

func (r *MemoryWordPairsRepository) FindDueWordPairs(ctx context.Context, userID string, now time.Time) ([]dal.WordPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(wp dal.WordPair) bool {
		return wp.UserID == userID && wp.IsDue(now)
	}), nil
}

func (r *MemoryWordPairsRepository) CountDueWordPairs(ctx context.Context, userID string, now time.Time) (int, error) {
	words, err := r.FindDueWordPairs(ctx, userID, now)
	return len(words), err
}

func (r *MemoryWordPairsRepository) FindWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) ([]dal.WordPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched := r.search(userID, filter.Word)
	slices.SortFunc(matched, func(a, b dal.WordPair) int {
		if c := compareFloat(a.CompletionRatio(), b.CompletionRatio()); c != 0 {
			return c
		}
		if c := strings.Compare(a.SourceWord, b.SourceWord); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if filter.Offset >= uint64(len(matched)) {
		return []dal.WordPair{}, nil
	}
	end := min(filter.Offset+filter.Limit, uint64(len(matched)))
	return matched[filter.Offset:end], nil
}

func (r *MemoryWordPairsRepository) CountWordPairs(ctx context.Context, userID string, filter dal.WordPairsFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.search(userID, filter.Word)), nil
}

func (r *MemoryWordPairsRepository) FindWordPair(ctx context.Context, userID, id string) (*dal.WordPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	wp, ok := r.items[id]
	if !ok || wp.UserID != userID {
		return nil, dal.ErrNotFound
	}
	res := clonePair(wp)
	return &res, nil
}

func (r *MemoryWordPairsRepository) UpdateWordPair(ctx context.Context, userID, id string, patch dal.WordPairPatch) (*dal.WordPair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	wp, ok := r.items[id]
	if !ok || wp.UserID != userID {
		return nil, dal.ErrNotFound
	}
	if patch.SourceWord != nil {
		wp.SourceWord = *patch.SourceWord
	}
	if patch.Translation != nil {
		wp.Translation = *patch.Translation
	}
	if patch.Sentences != nil {
		wp.Sentences = slices.Clone(*patch.Sentences)
	}
	if patch.NextRepetitionDate != nil {
		wp.NextRepetitionDate = *patch.NextRepetitionDate
	}
	if patch.Repetitions != nil {
		wp.Repetitions = *patch.Repetitions
	}
	r.items[id] = wp

	res := clonePair(wp)
	return &res, nil
}

func (r *MemoryWordPairsRepository) WordPairExists(ctx context.Context, userID, sourceWord string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, wp := range r.items {
		if wp.UserID == userID && wp.SourceWord == sourceWord {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryWordPairsRepository) search(userID, word string) []dal.WordPair {
	word = strings.ToLower(word)
	return r.filter(func(wp dal.WordPair) bool {
		return wp.UserID == userID &&
			(strings.Contains(strings.ToLower(wp.SourceWord), word) ||
				strings.Contains(strings.ToLower(wp.Translation), word))
	})
}

func (r *MemoryWordPairsRepository) filter(match func(wp dal.WordPair) bool) []dal.WordPair {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]dal.WordPair, 0)
	for _, wp := range r.items {
		if match(wp) {
			res = append(res, clonePair(wp))
		}
	}
	return res
}

func clonePair(wp dal.WordPair) dal.WordPair {
	wp.Sentences = slices.Clone(wp.Sentences)
	return wp
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
