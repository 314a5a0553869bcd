package translation

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Roma7-7-7/flashcards-api/internal/testutil"
	"github.com/Roma7-7-7/flashcards-api/internal/words"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error) {
	args := m.Called(ctx, inputs, target, opts)
	if res := args.Get(0); res != nil {
		return res.([]translate.Translation), args.Error(1) //nolint:forcetypeassert // test mock
	}
	return nil, args.Error(1)
}

func (m *mockClient) SupportedLanguages(ctx context.Context, target language.Tag) ([]translate.Language, error) {
	args := m.Called(ctx, target)
	if res := args.Get(0); res != nil {
		return res.([]translate.Language), args.Error(1) //nolint:forcetypeassert // test mock
	}
	return nil, args.Error(1)
}

func TestService_Translate(t *testing.T) {
	textOptions := &translate.Options{Format: translate.Text}

	tests := []struct {
		name           string
		targetLanguage string
		setup          func(c *mockClient)
		expected       string
		expectedError  string
	}{
		{
			name:           "translated",
			targetLanguage: "es",
			setup: func(c *mockClient) {
				c.On("Translate", mock.Anything, []string{"house"}, language.Spanish, textOptions).
					Return([]translate.Translation{{Text: "casa", Source: language.English}}, nil)
			},
			expected: "casa",
		},
		{
			name:           "upper-cased code",
			targetLanguage: "UK",
			setup: func(c *mockClient) {
				c.On("Translate", mock.Anything, []string{"house"}, language.Ukrainian, textOptions).
					Return([]translate.Translation{{Text: "будинок"}}, nil)
			},
			expected: "будинок",
		},
		{
			name:           "unknown language code",
			targetLanguage: "not a language",
			setup:          func(*mockClient) {},
			expectedError:  "Incorrect request",
		},
		{
			name:           "client failure",
			targetLanguage: "es",
			setup: func(c *mockClient) {
				c.On("Translate", mock.Anything, []string{"house"}, language.Spanish, textOptions).
					Return(nil, errors.New("quota exceeded"))
			},
			expectedError: "Incorrect request",
		},
		{
			name:           "empty result",
			targetLanguage: "es",
			setup: func(c *mockClient) {
				c.On("Translate", mock.Anything, []string{"house"}, language.Spanish, textOptions).
					Return([]translate.Translation{}, nil)
			},
			expectedError: "Incorrect request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockClient)
			tt.setup(client)
			service := NewService(client, testutil.DiscardLogger())

			res, err := service.Translate(context.Background(), "house", tt.targetLanguage)

			client.AssertExpectations(t)
			if tt.expectedError != "" {
				require.True(t, words.IsBadRequest(err), "expected bad request, got %v", err)
				var e *words.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.expectedError, e.Message)
				assert.Empty(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestService_Languages(t *testing.T) {
	t.Run("codes are upper-cased", func(t *testing.T) {
		client := new(mockClient)
		client.On("SupportedLanguages", mock.Anything, language.English).Return([]translate.Language{
			{Name: "Spanish", Tag: language.Spanish},
			{Name: "Chinese (Simplified)", Tag: language.MustParse("zh-CN")},
		}, nil)
		service := NewService(client, testutil.DiscardLogger())

		langs, err := service.Languages(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []Language{
			{Code: "ES", Name: "Spanish"},
			{Code: "ZH-CN", Name: "Chinese (Simplified)"},
		}, langs)
		client.AssertExpectations(t)
	})

	t.Run("client failure is internal", func(t *testing.T) {
		client := new(mockClient)
		client.On("SupportedLanguages", mock.Anything, language.English).Return(nil, errors.New("boom"))
		service := NewService(client, testutil.DiscardLogger())

		langs, err := service.Languages(context.Background())

		assert.Nil(t, langs)
		assert.True(t, words.IsInternal(err))
		client.AssertExpectations(t)
	})
}
