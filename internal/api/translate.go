package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/Roma7-7-7/flashcards-api/internal/translation"
)

type (
	TranslationService interface {
		Translate(ctx context.Context, text, targetLanguage string) (string, error)
		Languages(ctx context.Context) ([]translation.Language, error)
	}

	TranslateRequest struct {
		Text           string `json:"text" validate:"required"`
		TargetLanguage string `json:"targetLanguage" validate:"required"`
	}

	Language struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}

	TranslateHandler struct {
		service TranslationService
		log     *slog.Logger
	}
)

func NewTranslateHandler(service TranslationService, log *slog.Logger) *TranslateHandler {
	return &TranslateHandler{
		service: service,
		log:     log,
	}
}

func (h *TranslateHandler) Translate(c echo.Context) error {
	var req TranslateRequest
	if err := c.Bind(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, BadRequestError)
	}

	if err := c.Validate(&req); err != nil {
		h.log.DebugContext(c.Request().Context(), "failed to validate request", "error", err)
		return err
	}

	res, err := h.service.Translate(c.Request().Context(), req.Text, req.TargetLanguage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

func (h *TranslateHandler) Languages(c echo.Context) error {
	langs, err := h.service.Languages(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"data": lo.Map(langs, func(l translation.Language, _ int) Language {
		return Language{Code: l.Code, Name: l.Name}
	})})
}
