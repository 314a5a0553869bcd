package config

import (
	"fmt"
	"strings"
)

const (
	DefaultAWSRegion = "eu-central-1"

	ssmParamsPrefix = "/flashcards-api/prod"
	ssmJWTSecretKey = ssmParamsPrefix + "/jwt-secret"
	ssmDBURLKey     = ssmParamsPrefix + "/db-url"
)

type validationErrors []string

func (e *validationErrors) add(format string, args ...any) {
	*e = append(*e, fmt.Sprintf(format, args...))
}

func (e validationErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %s", strings.Join(e, ", "))
}
