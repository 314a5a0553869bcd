package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/translate"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

const incorrectRequestMessage = "Incorrect request"

var errEmptyTranslation = errors.New("empty translation result")

type (
	// Client is the part of *translate.Client the service needs.
	Client interface {
		Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
		SupportedLanguages(ctx context.Context, target language.Tag) ([]translate.Language, error)
	}

	Language struct {
		Code string
		Name string
	}

	Service struct {
		client Client
		log    *slog.Logger
	}
)

// NewClient creates a Google Cloud Translation (v2) client authenticated with an API key.
func NewClient(ctx context.Context, apiKey string) (*translate.Client, error) {
	client, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create translate client: %w", err)
	}
	return client, nil
}

func NewService(client Client, log *slog.Logger) *Service {
	return &Service{
		client: client,
		log:    log,
	}
}

// Translate translates plain text into targetLanguage. Any failure, including an unknown language code,
// is reported to the caller as a bad request.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	res, err := s.translateText(ctx, text, targetLanguage)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to translate text",
			"error", err,
			"operation", "translate",
			"text", text,
			"target_language", targetLanguage,
		)
		return "", words.BadRequest(incorrectRequestMessage)
	}

	s.log.DebugContext(ctx, "translated text", "target_language", targetLanguage)
	return res, nil
}

func (s *Service) translateText(ctx context.Context, text, targetLanguage string) (string, error) {
	target, err := language.Parse(targetLanguage)
	if err != nil {
		return "", fmt.Errorf("parse target language: %w", err)
	}

	res, err := s.client.Translate(ctx, []string{text}, target, &translate.Options{Format: translate.Text})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(res) == 0 {
		return "", errEmptyTranslation
	}
	return res[0].Text, nil
}

// Languages lists the supported target languages with upper-cased codes and English names.
func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	langs, err := s.client.SupportedLanguages(ctx, language.English)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to get translation languages",
			"error", err,
			"operation", "translation_languages",
		)
		return nil, words.Internal(err)
	}

	return lo.Map(langs, func(l translate.Language, _ int) Language {
		return Language{
			Code: strings.ToUpper(l.Tag.String()),
			Name: l.Name,
		}
	}), nil
}
