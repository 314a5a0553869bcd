package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
	sqlrepo "github.com/Roma7-7-7/flashcards-api/internal/dal/sql"
	"github.com/Roma7-7-7/flashcards-api/internal/data"
	"github.com/Roma7-7-7/flashcards-api/internal/testutil"
	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

func feed(lines ...data.Line) <-chan data.Line {
	ch := make(chan data.Line, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

func TestImportLines(t *testing.T) {
	existing := testutil.NewTestWordPair("user-1", "casa", "house", time.Now())
	lines := []data.Line{
		{Number: 1, SourceWord: "casa", Translation: "home", Sentences: []string{}},
		{Number: 2, SourceWord: "perro", Translation: "dog", Sentences: []string{"el perro"}},
	}

	tests := []struct {
		name            string
		skipExisting    bool
		expectedCreated int
		expectedSkipped int
	}{
		{"skip existing", true, 1, 1},
		{"import everything", false, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMemoryWordPairsRepository(existing)
			service := words.NewService(repo, testutil.DiscardLogger())
			opts := &options{userID: "user-1", interval: 2, maxRepetitions: 7, skipExisting: tt.skipExisting}

			res, err := importLines(context.Background(), service, opts, feed(lines...))
			require.NoError(t, err)
			assert.Equal(t, summary{Created: tt.expectedCreated, Skipped: tt.expectedSkipped}, res)

			pairs, err := repo.FindWordPairs(context.Background(), "user-1", dal.WordPairsFilter{Word: "perro", Limit: 10})
			require.NoError(t, err)
			require.Len(t, pairs, 1)
			assert.Equal(t, 7, pairs[0].MaxRepetitions)
			assert.InDelta(t, 2.0, pairs[0].RepetitionInterval, 0)
			assert.Equal(t, []string{"el perro"}, pairs[0].Sentences)
		})
	}
}

func TestImportLines_StopsOnError(t *testing.T) {
	service := words.NewService(testutil.NewMemoryWordPairsRepository(), testutil.DiscardLogger())
	opts := &options{userID: "user-1", interval: -1, maxRepetitions: 5}

	res, err := importLines(context.Background(), service, opts, feed(data.Line{Number: 3, SourceWord: "casa", Translation: "house"}))

	assert.Zero(t, res.Created)
	assert.ErrorContains(t, err, "import line 3")
	assert.True(t, words.IsBadRequest(err))
}

func TestRun_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "flashcards.db")
	source := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(source, []byte("casa:house:mi casa|tu casa\nperro:dog\n\nbroken line\n"), 0o600))

	opts := &options{
		source:         source,
		dbType:         string(dal.DBTypeSQLite),
		dbURL:          dbPath,
		userID:         "user-1",
		interval:       24,
		maxRepetitions: 5,
		skipExisting:   true,
	}

	err := run(context.Background(), opts, testutil.DiscardLogger())
	var parsingErr *data.ParsingError
	require.True(t, errors.As(err, &parsingErr), "unexpected error: %v", err)
	assert.Equal(t, []int{4}, parsingErr.InvalidLines)

	// second run must skip what is already there
	require.NoError(t, os.WriteFile(source, []byte("casa:house\ngato:cat\n"), 0o600))
	require.NoError(t, run(context.Background(), opts, testutil.DiscardLogger()))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlrepo.NewRepository(db, dal.DBTypeSQLite, testutil.DiscardLogger())
	total, err := repo.CountWordPairs(context.Background(), "user-1", dal.WordPairsFilter{Limit: words.PageSize})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	pairs, err := repo.FindWordPairs(context.Background(), "user-1", dal.WordPairsFilter{Word: "casa", Limit: words.PageSize})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "house", pairs[0].Translation)
	assert.Equal(t, []string{"mi casa", "tu casa"}, pairs[0].Sentences)
	assert.Equal(t, 5, pairs[0].MaxRepetitions)
}

func TestRun_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"unknown db type", options{dbType: "mongo", dbURL: "x", source: "-"}},
		{"missing db url", options{dbType: "sqlite", source: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(context.Background(), &tt.opts, testutil.DiscardLogger()))
		})
	}
}
