package dal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectColumns = strings.Join(WordPairColumns, ", ")

func TestQueries_FindDueWordPairsQuery(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		dbType       DBType
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "sqlite",
			dbType:       DBTypeSQLite,
			expectedSQL:  "SELECT " + selectColumns + " FROM word_pairs WHERE (user_id = ? AND next_repetition_date <= ? AND repetitions < max_repetitions)",
			expectedArgs: []any{"user-1", now},
		},
		{
			name:         "postgres",
			dbType:       DBTypePostgres,
			expectedSQL:  "SELECT " + selectColumns + " FROM word_pairs WHERE (user_id = $1 AND next_repetition_date <= $2 AND repetitions < max_repetitions)",
			expectedArgs: []any{"user-1", now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := NewQueries(tt.dbType).FindDueWordPairsQuery("user-1", now).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestQueries_CountDueWordPairsQuery_SharesPredicate(t *testing.T) {
	now := time.Now()
	q := NewQueries(DBTypeSQLite)

	findSQL, findArgs, err := q.FindDueWordPairsQuery("user-1", now).ToSql()
	require.NoError(t, err)
	countSQL, countArgs, err := q.CountDueWordPairsQuery("user-1", now).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM word_pairs WHERE (user_id = ? AND next_repetition_date <= ? AND repetitions < max_repetitions)", countSQL)
	assert.Equal(t, findSQL[strings.Index(findSQL, " FROM "):], countSQL[strings.Index(countSQL, " FROM "):])
	assert.Equal(t, findArgs, countArgs)
}

func TestQueries_FindWordPairsQuery(t *testing.T) {
	tests := []struct {
		name              string
		dbType            DBType
		filter            WordPairsFilter
		expectedSelectSQL string
		expectedCountSQL  string
		expectedArgs      []any
	}{
		{
			name:              "no search word",
			dbType:            DBTypeSQLite,
			filter:            WordPairsFilter{Offset: 0, Limit: 15},
			expectedSelectSQL: "SELECT " + selectColumns + " FROM word_pairs WHERE user_id = ? ORDER BY repetitions * 1.0 / max_repetitions, source_word, id LIMIT 15 OFFSET 0",
			expectedCountSQL:  "SELECT COUNT(*) FROM word_pairs WHERE user_id = ?",
			expectedArgs:      []any{"user-1"},
		},
		{
			name:   "search word is lowercased and escaped",
			dbType: DBTypeSQLite,
			filter: WordPairsFilter{Word: "Ca_s%", Offset: 15, Limit: 15},
			expectedSelectSQL: "SELECT " + selectColumns + " FROM word_pairs WHERE user_id = ? AND " +
				`(unicode_lower(source_word) LIKE ? ESCAPE '\' OR unicode_lower(translation) LIKE ? ESCAPE '\')` +
				" ORDER BY repetitions * 1.0 / max_repetitions, source_word, id LIMIT 15 OFFSET 15",
			expectedCountSQL: "SELECT COUNT(*) FROM word_pairs WHERE user_id = ? AND " +
				`(unicode_lower(source_word) LIKE ? ESCAPE '\' OR unicode_lower(translation) LIKE ? ESCAPE '\')`,
			expectedArgs: []any{"user-1", `%ca\_s\%%`, `%ca\_s\%%`},
		},
		{
			name:   "postgres lowers non ascii search word",
			dbType: DBTypePostgres,
			filter: WordPairsFilter{Word: "ÉCLAIR", Limit: 15},
			expectedSelectSQL: "SELECT " + selectColumns + " FROM word_pairs WHERE user_id = $1 AND " +
				`(LOWER(source_word) LIKE $2 ESCAPE '\' OR LOWER(translation) LIKE $3 ESCAPE '\')` +
				" ORDER BY repetitions * 1.0 / max_repetitions, source_word, id LIMIT 15 OFFSET 0",
			expectedCountSQL: "SELECT COUNT(*) FROM word_pairs WHERE user_id = $1 AND " +
				`(LOWER(source_word) LIKE $2 ESCAPE '\' OR LOWER(translation) LIKE $3 ESCAPE '\')`,
			expectedArgs: []any{"user-1", "%éclair%", "%éclair%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selectQuery, countQuery := NewQueries(tt.dbType).FindWordPairsQuery("user-1", tt.filter)

			sql, args, err := selectQuery.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSelectSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)

			sql, args, err = countQuery.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCountSQL, sql)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestQueries_UpdateWordPairQuery(t *testing.T) {
	updatedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	translation := "house"
	repetitions := 2
	sentences := `["mi casa"]`

	sql, args, err := NewQueries(DBTypePostgres).UpdateWordPairQuery("user-1", "pair-1", WordPairPatch{
		Translation: &translation,
		Repetitions: &repetitions,
	}, &sentences, updatedAt).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE word_pairs SET translation = $1, sentences = $2, repetitions = $3, updated_at = $4 "+
		"WHERE id = $5 AND user_id = $6 RETURNING "+selectColumns, sql)
	assert.Equal(t, []any{"house", sentences, 2, updatedAt, "pair-1", "user-1"}, args)
}

func TestQueries_WordPairExistsQuery(t *testing.T) {
	sql, args, err := NewQueries(DBTypeSQLite).WordPairExistsQuery("user-1", "casa").ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1 FROM word_pairs WHERE user_id = ? AND source_word = ? LIMIT 1", sql)
	assert.Equal(t, []any{"user-1", "casa"}, args)
}

func TestWordPair_IsDue(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pair     WordPair
		expected bool
	}{
		{"due now", WordPair{NextRepetitionDate: now, Repetitions: 0, MaxRepetitions: 5}, true},
		{"due in the past", WordPair{NextRepetitionDate: now.Add(-time.Hour), Repetitions: 4, MaxRepetitions: 5}, true},
		{"not due yet", WordPair{NextRepetitionDate: now.Add(time.Second), Repetitions: 0, MaxRepetitions: 5}, false},
		{"mastered", WordPair{NextRepetitionDate: now.Add(-time.Hour), Repetitions: 3, MaxRepetitions: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pair.IsDue(now))
		})
	}
}

func TestParseDBType(t *testing.T) {
	dbType, err := ParseDBType("postgres")
	require.NoError(t, err)
	assert.Equal(t, DBTypePostgres, dbType)
	assert.Equal(t, "pgx", dbType.DriverName())
	assert.Equal(t, "sqlite", DBTypeSQLite.DriverName())

	_, err = ParseDBType("mongo")
	assert.Error(t, err)
}
