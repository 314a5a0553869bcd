package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
	"github.com/Roma7-7-7/flashcards-api/internal/dal/migrations"
	sqlrepo "github.com/Roma7-7-7/flashcards-api/internal/dal/sql"
	"github.com/Roma7-7-7/flashcards-api/internal/data"
	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

type (
	options struct {
		source         string
		dbType         string
		dbURL          string
		userID         string
		interval       float64
		maxRepetitions int
		skipExisting   bool
		verbose        bool
	}

	pairCreator interface {
		CreatePair(ctx context.Context, userID string, draft words.Draft) (*dal.WordPair, error)
		WordPairExists(ctx context.Context, sourceWord, userID string) (bool, error)
	}

	summary struct {
		Created int
		Skipped int
	}
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "import",
		Short:        "Import word pairs for a user from a text file",
		Long:         "Each non-blank line of the source file is word:translation[:sentence1|sentence2...]",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, newLogger(opts.verbose))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.source, "source", "", "source file, - for stdin")
	flags.StringVar(&opts.dbType, "db-type", string(dal.DBTypeSQLite), "database type: sqlite or postgres")
	flags.StringVar(&opts.dbURL, "db-url", os.Getenv("DB_URL"), "database URL, defaults to $DB_URL")
	flags.StringVar(&opts.userID, "user-id", "", "owner of the imported word pairs")
	flags.Float64Var(&opts.interval, "interval", words.DefaultRepetitionInterval, "repetition interval in hours")
	flags.IntVar(&opts.maxRepetitions, "max-repetitions", words.DefaultMaxRepetitions, "repetitions until a pair is mastered")
	flags.BoolVar(&opts.skipExisting, "skip-existing", true, "skip words the user already has")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func run(ctx context.Context, opts *options, log *slog.Logger) error {
	dbType, err := dal.ParseDBType(opts.dbType)
	if err != nil {
		return err
	}
	if opts.dbURL == "" {
		return errors.New("database URL is required")
	}

	db, err := sql.Open(dbType.DriverName(), opts.dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err = migrations.Up(db, dbType, log); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	in := os.Stdin
	if opts.source != "-" {
		if in, err = os.Open(filepath.Clean(opts.source)); err != nil {
			return fmt.Errorf("open source file: %w", err)
		}
	}

	service := words.NewService(sqlrepo.NewRepository(db, dbType, log), log)

	parseCtx, cancelParse := context.WithCancel(ctx)
	defer cancelParse()

	lines := make(chan data.Line)
	parseErr := make(chan error, 1)
	go func() {
		parseErr <- data.Parse(parseCtx, in, lines)
	}()

	res, err := importLines(ctx, service, opts, lines)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "import finished", "user_id", opts.userID, "created", res.Created, "skipped", res.Skipped)

	if err = <-parseErr; err != nil {
		var parsingErr *data.ParsingError
		if errors.As(err, &parsingErr) {
			log.WarnContext(ctx, "some lines were not imported", "invalid_lines", parsingErr.InvalidLines)
		}
		return err
	}

	return nil
}

func importLines(ctx context.Context, service pairCreator, opts *options, lines <-chan data.Line) (summary, error) {
	var res summary
	for line := range lines {
		if opts.skipExisting {
			exists, err := service.WordPairExists(ctx, line.SourceWord, opts.userID)
			if err != nil {
				return res, fmt.Errorf("check line %d: %w", line.Number, err)
			}
			if exists {
				res.Skipped++
				continue
			}
		}

		_, err := service.CreatePair(ctx, opts.userID, words.Draft{
			SourceWord:         line.SourceWord,
			Translation:        line.Translation,
			Sentences:          line.Sentences,
			RepetitionInterval: &opts.interval,
			MaxRepetitions:     &opts.maxRepetitions,
		})
		if err != nil {
			return res, fmt.Errorf("import line %d: %w", line.Number, err)
		}
		res.Created++
	}
	return res, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
