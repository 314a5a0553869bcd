package words

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

const (
	PageSize = 15

	DefaultRepetitionInterval = 24.0 // hours
	DefaultMaxRepetitions     = 5

	// MaxRepetitionInterval is the largest interval in hours a time.Duration can hold.
	MaxRepetitionInterval = 2562047.0

	maxPage = math.MaxInt / PageSize
)

type (
	// Draft is the user supplied part of a new word pair. Nil numbers fall back to the defaults.
	Draft struct {
		SourceWord         string
		Translation        string
		Sentences          []string
		RepetitionInterval *float64
		MaxRepetitions     *int
	}

	// SavedWord is a word pair as shown in the saved words list.
	SavedWord struct {
		ID                 string
		SourceWord         string
		Translation        string
		Sentences          []string
		Repetitions        int
		MaxRepetitions     int
		NextRepetitionDate time.Time
	}

	SavedWords struct {
		Words []SavedWord
		Page  int
		Next  bool
	}

	Option func(s *Service)

	Service struct {
		repo  dal.WordPairsRepository
		clock func() time.Time
		log   *slog.Logger
	}
)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func NewService(repo dal.WordPairsRepository, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		clock: time.Now,
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreatePair(ctx context.Context, userID string, draft Draft) (*dal.WordPair, error) {
	wp := dal.WordPair{
		UserID:             userID,
		SourceWord:         strings.TrimSpace(draft.SourceWord),
		Translation:        strings.TrimSpace(draft.Translation),
		Sentences:          draft.Sentences,
		Repetitions:        0,
		MaxRepetitions:     DefaultMaxRepetitions,
		RepetitionInterval: DefaultRepetitionInterval,
	}
	if wp.SourceWord == "" || wp.Translation == "" {
		return nil, BadRequest(requiredFieldsMessage)
	}
	if draft.MaxRepetitions != nil {
		if *draft.MaxRepetitions < 1 {
			return nil, BadRequest("Max repetitions must be at least 1")
		}
		wp.MaxRepetitions = *draft.MaxRepetitions
	}
	if draft.RepetitionInterval != nil {
		if !(*draft.RepetitionInterval > 0) {
			return nil, BadRequest("Repetition interval must be positive")
		}
		if *draft.RepetitionInterval > MaxRepetitionInterval {
			return nil, BadRequest(fmt.Sprintf("Repetition interval must be at most %d hours", int(MaxRepetitionInterval)))
		}
		wp.RepetitionInterval = *draft.RepetitionInterval
	}
	if wp.Sentences == nil {
		wp.Sentences = []string{}
	}
	wp.NextRepetitionDate = NextRepetitionDate(s.clock(), wp.RepetitionInterval)

	created, err := s.repo.CreateWordPair(ctx, wp)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create word pair",
			"error", err,
			"operation", "create_pair",
			"user_id", userID,
			"source_word", wp.SourceWord,
			"translation", wp.Translation,
		)
		return nil, Internal(err)
	}

	s.log.InfoContext(ctx, "created new word pair", "user_id", userID, "word_pair_id", created.ID)
	return created, nil
}

// GetWordsForRepeating returns due and not yet mastered pairs in random order.
func (s *Service) GetWordsForRepeating(ctx context.Context, userID string) ([]dal.WordPair, error) {
	words, err := s.repo.FindDueWordPairs(ctx, userID, s.clock())
	if err != nil {
		s.log.ErrorContext(ctx, "failed to get words for repeating",
			"error", err,
			"operation", "get_words_for_repeating",
			"user_id", userID,
		)
		return nil, Internal(err)
	}

	words = lo.Shuffle(words)

	s.log.InfoContext(ctx, "sent words for repeating", "user_id", userID, "count", len(words))
	return words, nil
}

// GetSavedWords returns a page of the user's pairs which contain word in the source word or translation,
// least mastered first.
func (s *Service) GetSavedWords(ctx context.Context, page int, word, userID string) (*SavedWords, error) {
	if page < 1 || page > maxPage {
		return nil, BadRequest(improperPageMessage)
	}

	filter := dal.WordPairsFilter{
		Word:   word,
		Offset: uint64((page - 1) * PageSize), //nolint:gosec // 1 <= page <= maxPage
		Limit:  PageSize,
	}

	var (
		words []dal.WordPair
		total int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		words, err = s.repo.FindWordPairs(egCtx, userID, filter)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.CountWordPairs(egCtx, userID, filter)
		return err
	})

	if err := eg.Wait(); err != nil {
		s.log.ErrorContext(ctx, "failed to get saved words",
			"error", err,
			"operation", "get_saved_words",
			"user_id", userID,
			"page", page,
			"word", word,
		)
		return nil, Internal(err)
	}

	s.log.InfoContext(ctx, "sent saved words", "user_id", userID, "page", page)
	return &SavedWords{
		Words: lo.Map(words, func(w dal.WordPair, _ int) SavedWord { return toSavedWord(w) }),
		Page:  page,
		Next:  total > page*PageSize,
	}, nil
}

func (s *Service) UpdateWordPair(ctx context.Context, patch dal.WordPairPatch, wordPairID, userID string) (*dal.WordPair, error) {
	if _, err := uuid.Parse(wordPairID); err != nil {
		return nil, BadRequest(incorrectPairMessage)
	}
	if patch.SourceWord != nil {
		trimmed := strings.TrimSpace(*patch.SourceWord)
		if trimmed == "" {
			return nil, BadRequest(requiredFieldsMessage)
		}
		patch.SourceWord = &trimmed
	}
	if patch.Translation != nil {
		trimmed := strings.TrimSpace(*patch.Translation)
		if trimmed == "" {
			return nil, BadRequest(requiredFieldsMessage)
		}
		patch.Translation = &trimmed
	}
	if patch.Repetitions != nil && *patch.Repetitions < 0 {
		return nil, BadRequest("Repetitions must not be negative")
	}

	updated, err := s.repo.UpdateWordPair(ctx, userID, wordPairID, patch)
	if err != nil {
		if errors.Is(err, dal.ErrNotFound) {
			return nil, BadRequest(incorrectPairMessage)
		}
		s.log.ErrorContext(ctx, "failed to update word pair",
			"error", err,
			"operation", "update_word_pair",
			"user_id", userID,
			"word_pair_id", wordPairID,
		)
		return nil, Internal(err)
	}

	s.log.InfoContext(ctx, "updated word pair", "user_id", userID, "word_pair_id", wordPairID)
	return updated, nil
}

// GetWordsCount counts the pairs GetWordsForRepeating would return at the same instant.
func (s *Service) GetWordsCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountDueWordPairs(ctx, userID, s.clock())
	if err != nil {
		s.log.ErrorContext(ctx, "failed to get words count",
			"error", err,
			"operation", "get_words_count",
			"user_id", userID,
		)
		return 0, Internal(err)
	}

	s.log.InfoContext(ctx, "sent words count", "user_id", userID, "count", count)
	return count, nil
}

// WordPairExists matches the source word exactly, unlike the saved words search.
func (s *Service) WordPairExists(ctx context.Context, sourceWord, userID string) (bool, error) {
	exists, err := s.repo.WordPairExists(ctx, userID, sourceWord)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to check word pair existence",
			"error", err,
			"operation", "word_pair_exists",
			"user_id", userID,
			"source_word", sourceWord,
		)
		return false, Internal(err)
	}

	s.log.InfoContext(ctx, "sent word pair existence result", "user_id", userID, "exists", exists)
	return exists, nil
}

// NextRepetitionDate is the moment a pair created at now becomes due.
func NextRepetitionDate(now time.Time, intervalHours float64) time.Time {
	return now.Add(time.Duration(intervalHours * float64(time.Hour)))
}

func toSavedWord(w dal.WordPair) SavedWord {
	return SavedWord{
		ID:                 w.ID,
		SourceWord:         w.SourceWord,
		Translation:        w.Translation,
		Sentences:          w.Sentences,
		Repetitions:        w.Repetitions,
		MaxRepetitions:     w.MaxRepetitions,
		NextRepetitionDate: w.NextRepetitionDate,
	}
}
