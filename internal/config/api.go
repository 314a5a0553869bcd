package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Roma7-7-7/flashcards-api/internal/dal"
)

type (
	DB struct {
		Type string `envconfig:"DB_TYPE" default:"sqlite"`
		URL  string `envconfig:"DB_URL"`
	}

	CORS struct {
		AllowOrigins []string `envconfig:"ALLOW_ORIGINS" required:"true"`
	}

	JWT struct {
		Issuer   string   `envconfig:"ISSUER" default:"flashcards-api"`
		Audience []string `envconfig:"AUDIENCE" required:"true"`
		Secret   string   `envconfig:"SECRET"`
		// ExpiresIn is the lifetime of tokens issued by JWTProcessor.ToAccessToken.
		ExpiresIn time.Duration `envconfig:"EXPIRES_IN" default:"24h"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		CORS           CORS
		JWT            JWT
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8080"`
	}

	AWS struct {
		Region string `envconfig:"REGION" default:"eu-central-1"`
	}

	// Translate configures the Google Cloud Translation client. The translate routes are served only
	// when APIKey is set.
	Translate struct {
		APIKey string `envconfig:"API_KEY"`
	}

	BuildInfo struct {
		Version   string
		BuildTime string
	}

	API struct {
		Dev       bool `envconfig:"DEV" default:"false"`
		DB        DB
		HTTP      HTTP
		Server    Server
		AWS       AWS
		Translate Translate
		BuildInfo BuildInfo `ignored:"true"`
	}

	ssmClientFactory func(ctx context.Context, region string) (SSMClient, error)
)

func NewAPI(ctx context.Context) (*API, error) {
	return newAPI(ctx, func(ctx context.Context, region string) (SSMClient, error) {
		return NewSSMClient(ctx, region)
	})
}

func newAPI(ctx context.Context, newSSMClient ssmClientFactory) (*API, error) {
	_ = godotenv.Load()

	res := &API{}
	if err := envconfig.Process("API", res); err != nil {
		return nil, fmt.Errorf("parse api environment: %w", err)
	}

	if !res.Dev {
		client, err := newSSMClient(ctx, res.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("create ssm client: %w", err)
		}
		if err = setAPIProdConfig(ctx, client, res); err != nil {
			return nil, fmt.Errorf("set api prod config: %w", err)
		}
	}

	return validateAPI(res)
}

func (c *API) DBType() dal.DBType {
	t, _ := dal.ParseDBType(c.DB.Type)
	return t
}

func (c *API) TranslateEnabled() bool {
	return c.Translate.APIKey != ""
}

func validateAPI(conf *API) (*API, error) {
	var errs validationErrors
	if _, err := dal.ParseDBType(conf.DB.Type); err != nil {
		errs.add("db type: %s", err)
	}
	if conf.DB.URL == "" {
		errs.add("db url is required")
	}
	if conf.HTTP.JWT.Secret == "" {
		errs.add("jwt secret is required")
	}
	if len(conf.HTTP.JWT.Audience) == 0 {
		errs.add("jwt audience is required")
	}
	if conf.HTTP.ProcessTimeout <= 0 {
		errs.add("process timeout %s must be positive", conf.HTTP.ProcessTimeout)
	}
	if conf.HTTP.RateLimit <= 0 {
		errs.add("rate limit %v must be positive", conf.HTTP.RateLimit)
	}
	if conf.HTTP.JWT.ExpiresIn <= 0 {
		errs.add("jwt expires in %s must be positive", conf.HTTP.JWT.ExpiresIn)
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return conf, nil
}

func setAPIProdConfig(ctx context.Context, client SSMClient, target *API) error {
	parameters, err := FetchAWSParams(ctx, client, ssmJWTSecretKey, ssmDBURLKey)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	for name, value := range parameters {
		switch name {
		case ssmJWTSecretKey:
			target.HTTP.JWT.Secret = value
		case ssmDBURLKey:
			target.DB.URL = value
		}
	}

	return nil
}
