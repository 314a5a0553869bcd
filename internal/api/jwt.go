package api

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Roma7-7-7/flashcards-api/internal/config"
)

type JWTProcessor struct {
	issuer    string
	audience  []string
	expiresIn time.Duration

	secret []byte
	clock  func() time.Time
}

func NewJWTProcessor(conf config.JWT) *JWTProcessor {
	return &JWTProcessor{
		issuer:    conf.Issuer,
		audience:  conf.Audience,
		expiresIn: conf.ExpiresIn,

		secret: []byte(conf.Secret),
		clock:  time.Now,
	}
}

// ToAccessToken issues a token with the user id as subject.
func (p *JWTProcessor) ToAccessToken(userID string) (string, error) {
	now := p.clock()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   userID,
		Audience:  p.audience,
		ExpiresAt: jwt.NewNumericDate(now.Add(p.expiresIn)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	})

	signedString, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedString, nil
}

func (p *JWTProcessor) ParseAccessToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.clock),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}

	if aud, _ := parsed.Claims.GetAudience(); !containsAll(aud, p.audience) {
		return "", errors.New("invalid audience")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("get subject: %w", err)
	}
	if subject == "" {
		return "", errors.New("empty subject")
	}
	return subject, nil
}

// containsAll returns true if all elements in required are present in actual
func containsAll(actual, required []string) bool {
	for _, r := range required {
		if !slices.Contains(actual, r) {
			return false
		}
	}
	return true
}
