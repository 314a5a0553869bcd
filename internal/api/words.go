package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	appctx "github.com/Roma7-7-7/flashcards-api/internal/context"
	"github.com/Roma7-7-7/flashcards-api/internal/dal"
	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

type (
	WordsService interface {
		CreatePair(ctx context.Context, userID string, draft words.Draft) (*dal.WordPair, error)
		GetWordsForRepeating(ctx context.Context, userID string) ([]dal.WordPair, error)
		GetSavedWords(ctx context.Context, page int, word, userID string) (*words.SavedWords, error)
		UpdateWordPair(ctx context.Context, patch dal.WordPairPatch, wordPairID, userID string) (*dal.WordPair, error)
		GetWordsCount(ctx context.Context, userID string) (int, error)
		WordPairExists(ctx context.Context, sourceWord, userID string) (bool, error)
	}

	WordPair struct {
		ID                 string    `json:"id"`
		UserID             string    `json:"userId"`
		SourceWord         string    `json:"sourceWord"`
		Translation        string    `json:"translation"`
		Sentences          []string  `json:"sentences"`
		Repetitions        int       `json:"repetitions"`
		MaxRepetitions     int       `json:"maxRepetitions"`
		RepetitionInterval float64   `json:"repetitionInterval"`
		NextRepetitionDate time.Time `json:"nextRepetitionDate"`
		CreatedAt          time.Time `json:"createdAt"`
		UpdatedAt          time.Time `json:"updatedAt"`
	}

	// DueWord is a pair handed out for repeating. The owner is implied by the token.
	DueWord struct {
		ID                 string    `json:"id"`
		SourceWord         string    `json:"sourceWord"`
		Translation        string    `json:"translation"`
		Sentences          []string  `json:"sentences"`
		Repetitions        int       `json:"repetitions"`
		MaxRepetitions     int       `json:"maxRepetitions"`
		RepetitionInterval float64   `json:"repetitionInterval"`
		NextRepetitionDate time.Time `json:"nextRepetitionDate"`
	}

	SavedWord struct {
		ID                 string    `json:"id"`
		SourceWord         string    `json:"sourceWord"`
		Translation        string    `json:"translation"`
		Sentences          []string  `json:"sentences"`
		Repetitions        int       `json:"repetitions"`
		MaxRepetitions     int       `json:"maxRepetitions"`
		NextRepetitionDate time.Time `json:"nextRepetitionDate"`
	}

	// CreateWordPairRequest lists the only fields a client may set on a new pair.
	CreateWordPairRequest struct {
		SourceWord         string   `json:"sourceWord" validate:"required"`
		Translation        string   `json:"translation" validate:"required"`
		Sentences          []string `json:"sentences"`
		RepetitionInterval *float64 `json:"repetitionInterval" validate:"omitempty,gt=0,max=2562047"`
		MaxRepetitions     *int     `json:"maxRepetitions" validate:"omitempty,min=1"`
	}

	UpdateWordPairRequest struct {
		ID                 string     `param:"id" json:"-"`
		SourceWord         *string    `json:"sourceWord" validate:"omitempty,min=1"`
		Translation        *string    `json:"translation" validate:"omitempty,min=1"`
		Sentences          *[]string  `json:"sentences"`
		NextRepetitionDate *time.Time `json:"nextRepetitionDate"`
		Repetitions        *int       `json:"repetitions" validate:"omitempty,min=0"`
	}

	SavedWordsRequest struct {
		Word string `json:"word"`
	}

	WordPairExistsRequest struct {
		SourceWord string `json:"sourceWord" validate:"required"`
	}

	SavedWordsResponse struct {
		Data []SavedWord `json:"data"`
		Page int         `json:"page"`
		Next bool        `json:"next"`
	}

	WordsHandler struct {
		service WordsService
		log     *slog.Logger
	}
)

func NewWordsHandler(service WordsService, log *slog.Logger) *WordsHandler {
	return &WordsHandler{
		service: service,
		log:     log,
	}
}

func (h *WordsHandler) GetWordsForRepeating(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	pairs, err := h.service.GetWordsForRepeating(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": lo.Map(pairs, toDueWordView)})
}

func (h *WordsHandler) GetWordsCount(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	count, err := h.service.GetWordsCount(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": count})
}

func (h *WordsHandler) GetSavedWords(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	var req SavedWordsRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	// a non-numeric page is rejected by the service together with pages below 1
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		page = 0
	}

	saved, err := h.service.GetSavedWords(c.Request().Context(), page, req.Word, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SavedWordsResponse{
		Data: lo.Map(saved.Words, func(w words.SavedWord, _ int) SavedWord {
			return SavedWord{
				ID:                 w.ID,
				SourceWord:         w.SourceWord,
				Translation:        w.Translation,
				Sentences:          w.Sentences,
				Repetitions:        w.Repetitions,
				MaxRepetitions:     w.MaxRepetitions,
				NextRepetitionDate: w.NextRepetitionDate,
			}
		}),
		Page: saved.Page,
		Next: saved.Next,
	})
}

func (h *WordsHandler) CreateWordPair(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	var req CreateWordPairRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	wp, err := h.service.CreatePair(c.Request().Context(), userID, words.Draft{
		SourceWord:         req.SourceWord,
		Translation:        req.Translation,
		Sentences:          req.Sentences,
		RepetitionInterval: req.RepetitionInterval,
		MaxRepetitions:     req.MaxRepetitions,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": toWordPairView(*wp, 0)})
}

func (h *WordsHandler) UpdateWordPair(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	var req UpdateWordPairRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	wp, err := h.service.UpdateWordPair(c.Request().Context(), dal.WordPairPatch{
		SourceWord:         req.SourceWord,
		Translation:        req.Translation,
		Sentences:          req.Sentences,
		NextRepetitionDate: req.NextRepetitionDate,
		Repetitions:        req.Repetitions,
	}, req.ID, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": toWordPairView(*wp, 0)})
}

func (h *WordsHandler) WordPairExists(c echo.Context) error {
	userID := appctx.MustUserIDFromContext(c.Request().Context())

	var req WordPairExistsRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	exists, err := h.service.WordPairExists(c.Request().Context(), req.SourceWord, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": exists})
}

func toWordPairView(wp dal.WordPair, _ int) WordPair {
	return WordPair{
		ID:                 wp.ID,
		UserID:             wp.UserID,
		SourceWord:         wp.SourceWord,
		Translation:        wp.Translation,
		Sentences:          wp.Sentences,
		Repetitions:        wp.Repetitions,
		MaxRepetitions:     wp.MaxRepetitions,
		RepetitionInterval: wp.RepetitionInterval,
		NextRepetitionDate: wp.NextRepetitionDate,
		CreatedAt:          wp.CreatedAt,
		UpdatedAt:          wp.UpdatedAt,
	}
}

func toDueWordView(wp dal.WordPair, _ int) DueWord {
	return DueWord{
		ID:                 wp.ID,
		SourceWord:         wp.SourceWord,
		Translation:        wp.Translation,
		Sentences:          wp.Sentences,
		Repetitions:        wp.Repetitions,
		MaxRepetitions:     wp.MaxRepetitions,
		RepetitionInterval: wp.RepetitionInterval,
		NextRepetitionDate: wp.NextRepetitionDate,
	}
}
