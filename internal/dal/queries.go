package dal

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
)

const wordPairsTable = "word_pairs"

// WordPairColumns is the column order every word pair query selects in.
var WordPairColumns = []string{ //nolint:gochecknoglobals // read-only column list
	"id", "user_id", "source_word", "translation", "sentences",
	"repetitions", "max_repetitions", "repetition_interval",
	"next_repetition_date", "created_at", "updated_at",
}

// SQLiteLowerFunc is the Unicode aware lower-casing function registered for SQLite connections.
// The built-in LOWER only folds ASCII letters there.
const SQLiteLowerFunc = "unicode_lower"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`) //nolint:gochecknoglobals // stateless replacer

type Queries struct {
	qb    squirrel.StatementBuilderType
	lower string
}

func NewQueries(dbType DBType) *Queries {
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	lower := SQLiteLowerFunc
	if dbType == DBTypePostgres {
		placeholder = squirrel.Dollar
		lower = "LOWER"
	}

	return &Queries{
		qb:    squirrel.StatementBuilder.PlaceholderFormat(placeholder),
		lower: lower,
	}
}

// InsertWordPairQuery builds a query to insert a word pair. Sentences are passed already serialized.
func (q *Queries) InsertWordPairQuery(wp WordPair, sentences string) squirrel.Sqlizer {
	return q.qb.Insert(wordPairsTable).
		Columns(WordPairColumns...).
		Values(
			wp.ID, wp.UserID, wp.SourceWord, wp.Translation, sentences,
			wp.Repetitions, wp.MaxRepetitions, wp.RepetitionInterval,
			wp.NextRepetitionDate, wp.CreatedAt, wp.UpdatedAt,
		)
}

// FindDueWordPairsQuery builds a query to find pairs which are due and not mastered yet
func (q *Queries) FindDueWordPairsQuery(userID string, now time.Time) squirrel.Sqlizer {
	return q.qb.Select(WordPairColumns...).
		From(wordPairsTable).
		Where(duePredicate(userID, now))
}

// CountDueWordPairsQuery builds a query to count pairs matched by FindDueWordPairsQuery
func (q *Queries) CountDueWordPairsQuery(userID string, now time.Time) squirrel.Sqlizer {
	return q.qb.Select("COUNT(*)").
		From(wordPairsTable).
		Where(duePredicate(userID, now))
}

// FindWordPairsQuery builds a page query and a count query for saved word pairs search
func (q *Queries) FindWordPairsQuery(userID string, filter WordPairsFilter) (selectQuery, countQuery squirrel.Sqlizer) {
	baseQuery := q.qb.Select().
		From(wordPairsTable).
		Where(squirrel.Eq{"user_id": userID})

	if filter.Word != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Word)) + "%"
		baseQuery = baseQuery.Where(squirrel.Or{
			squirrel.Expr(q.lower+`(source_word) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(q.lower+`(translation) LIKE ? ESCAPE '\'`, pattern),
		})
	}

	selectQuery = baseQuery.
		Columns(WordPairColumns...).
		OrderBy("repetitions * 1.0 / max_repetitions", "source_word", "id").
		Offset(filter.Offset).
		Limit(filter.Limit)

	countQuery = baseQuery.Columns("COUNT(*)")

	return selectQuery, countQuery
}

// FindWordPairQuery builds a query to find a single pair owned by the user
func (q *Queries) FindWordPairQuery(userID, id string) squirrel.Sqlizer {
	return q.qb.Select(WordPairColumns...).
		From(wordPairsTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID})
}

// UpdateWordPairQuery builds a query which updates the pair owned by the user and returns its new state.
// Sentences, if present, are passed already serialized.
func (q *Queries) UpdateWordPairQuery(userID, id string, patch WordPairPatch, sentences *string, updatedAt time.Time) squirrel.Sqlizer {
	query := q.qb.Update(wordPairsTable)

	if patch.SourceWord != nil {
		query = query.Set("source_word", *patch.SourceWord)
	}
	if patch.Translation != nil {
		query = query.Set("translation", *patch.Translation)
	}
	if sentences != nil {
		query = query.Set("sentences", *sentences)
	}
	if patch.NextRepetitionDate != nil {
		query = query.Set("next_repetition_date", *patch.NextRepetitionDate)
	}
	if patch.Repetitions != nil {
		query = query.Set("repetitions", *patch.Repetitions)
	}

	return query.
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING " + strings.Join(WordPairColumns, ", "))
}

// WordPairExistsQuery builds a query returning a single row if the user has the exact source word
func (q *Queries) WordPairExistsQuery(userID, sourceWord string) squirrel.Sqlizer {
	return q.qb.Select("1").
		From(wordPairsTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"source_word": sourceWord}).
		Limit(1)
}

func duePredicate(userID string, now time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.Eq{"user_id": userID},
		squirrel.LtOrEq{"next_repetition_date": now},
		squirrel.Expr("repetitions < max_repetitions"),
	}
}
