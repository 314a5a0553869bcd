package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/Roma7-7-7/flashcards-api/internal/api"
	"github.com/Roma7-7-7/flashcards-api/internal/config"
	"github.com/Roma7-7-7/flashcards-api/internal/dal/migrations"
	sqlrepo "github.com/Roma7-7-7/flashcards-api/internal/dal/sql"
	"github.com/Roma7-7-7/flashcards-api/internal/translation"
	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

var (
	// Version is set via -ldflags at build time
	Version = "dev" //nolint:gochecknoglobals // must be global to be replaced at build time
	// BuildTime is set via -ldflags at build time
	BuildTime = "unknown" //nolint:gochecknoglobals // must be global to be replaced at build time
)

const (
	exitCodeOK int = iota
	exitCodeConfigParse
	exitCodeDBConnect
	exitCodeDBMigrate
	exitCodeServerStart
	exitCodeTranslateClient
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	go func() {
		<-sigs
		cancel()
	}()
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	conf, err := config.NewAPI(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get config", "error", err) //nolint:sloglint // ignore
		return exitCodeConfigParse
	}
	log := mustLogger(conf.Dev)

	dbType := conf.DBType()
	db, err := sql.Open(dbType.DriverName(), conf.DB.URL)
	if err != nil {
		log.ErrorContext(ctx, "failed to create database connection pool", "error", err)
		return exitCodeDBConnect
	}
	defer db.Close()

	if err = db.PingContext(ctx); err != nil {
		log.ErrorContext(ctx, "failed to connect to database", "error", err, "db_type", dbType)
		return exitCodeDBConnect
	}

	if err = migrations.Up(db, dbType, log); err != nil {
		log.ErrorContext(ctx, "failed to migrate database", "error", err, "db_type", dbType)
		return exitCodeDBMigrate
	}

	deps := dependencies(db, conf, log)
	if conf.TranslateEnabled() {
		client, tErr := translation.NewClient(ctx, conf.Translate.APIKey)
		if tErr != nil {
			log.ErrorContext(ctx, "failed to create translate client", "error", tErr)
			return exitCodeTranslateClient
		}
		defer client.Close()
		deps.Translator = translation.NewService(client, log)
	}

	conf.BuildInfo.Version = Version
	conf.BuildInfo.BuildTime = BuildTime
	router := api.NewRouter(ctx, conf, deps)
	log.InfoContext(ctx, "starting api server",
		"version", Version,
		"build_time", BuildTime,
		"address", conf.Server.Addr,
		"db_type", dbType,
		"translate_enabled", conf.TranslateEnabled(),
	)

	server := &http.Server{
		ReadHeaderTimeout: conf.Server.ReadHeaderTimeout,
		Addr:              conf.Server.Addr,
		Handler:           router,
	}

	go func() {
		<-ctx.Done()
		cCtx, cCancel := context.WithTimeout(context.Background(), 15*time.Second) //nolint:mnd // ignore mnd
		defer cCancel()

		if sErr := server.Shutdown(cCtx); sErr != nil {
			log.ErrorContext(cCtx, "failed to shutdown api server", "error", sErr)
		}
	}()

	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "failed to start api server", "error", err)
		return exitCodeServerStart
	}

	log.InfoContext(ctx, "api server is stopped")

	return exitCodeOK
}

func dependencies(db *sql.DB, conf *config.API, log *slog.Logger) api.Dependencies {
	repo := sqlrepo.NewRepository(db, conf.DBType(), log)
	return api.Dependencies{
		Service: words.NewService(repo, log),
		Logger:  log,
	}
}

func mustLogger(dev bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if dev {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
