package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Roma7-7-7/flashcards-api/internal/config"
)

type (
	Dependencies struct {
		Service WordsService
		// Translator is optional, the translate routes are not registered without it.
		Translator TranslationService
		Logger     *slog.Logger
	}
)

func NewRouter(ctx context.Context, conf *config.API, deps Dependencies) http.Handler {
	e := echo.New()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(ctx, deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.HTTP.CORS.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)
	e.Validator = NewValidator()

	e.GET("/health", healthHandler(conf.BuildInfo))

	jwtProcessor := NewJWTProcessor(conf.HTTP.JWT)
	authMiddleware := AuthMiddleware(jwtProcessor, deps.Logger)
	wordsGroup := e.Group("/words", authMiddleware)

	words := NewWordsHandler(deps.Service, deps.Logger)
	wordsGroup.GET("", words.GetWordsForRepeating)
	wordsGroup.GET("/count", words.GetWordsCount)
	wordsGroup.POST("/saved/:page", words.GetSavedWords)
	wordsGroup.POST("", words.CreateWordPair)
	wordsGroup.PUT("/:id", words.UpdateWordPair)
	wordsGroup.POST("/exists", words.WordPairExists)

	if deps.Translator != nil {
		translateGroup := e.Group("/translate", authMiddleware)

		translate := NewTranslateHandler(deps.Translator, deps.Logger)
		translateGroup.POST("", translate.Translate)
		translateGroup.GET("/languages", translate.Languages)
	}

	return e
}

func healthHandler(info config.BuildInfo) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":    "ok",
			"version":   info.Version,
			"buildTime": info.BuildTime,
		})
	}
}

func loggingMiddleware(ctx context.Context, log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.Duration("latency", v.Latency),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
