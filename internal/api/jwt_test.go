package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/flashcards-api/internal/config"
)

var testJWTConfig = config.JWT{ //nolint:gochecknoglobals // test fixture
	Issuer:    "flashcards-api",
	Audience:  []string{"flashcards-web"},
	Secret:    "test-secret",
	ExpiresIn: time.Hour,
}

func TestJWTProcessor_RoundTrip(t *testing.T) {
	p := NewJWTProcessor(testJWTConfig)

	token, err := p.ToAccessToken("user-1")
	require.NoError(t, err)

	userID, err := p.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestJWTProcessor_ParseAccessToken_Rejects(t *testing.T) {
	issued := func(conf config.JWT, at time.Time, userID string) string {
		p := NewJWTProcessor(conf)
		p.clock = func() time.Time { return at }
		token, err := p.ToAccessToken(userID)
		require.NoError(t, err)
		return token
	}
	withConf := func(modify func(c *config.JWT)) config.JWT {
		c := testJWTConfig
		modify(&c)
		return c
	}

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:   testJWTConfig.Issuer,
		Subject:  "user-1",
		Audience: testJWTConfig.Audience,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", issued(testJWTConfig, time.Now().Add(-2*time.Hour), "user-1")},
		{"other secret", issued(withConf(func(c *config.JWT) { c.Secret = "other" }), time.Now(), "user-1")},
		{"other issuer", issued(withConf(func(c *config.JWT) { c.Issuer = "someone-else" }), time.Now(), "user-1")},
		{"other audience", issued(withConf(func(c *config.JWT) { c.Audience = []string{"mobile"} }), time.Now(), "user-1")},
		{"empty subject", issued(testJWTConfig, time.Now(), "")},
		{"none algorithm", noneToken},
	}

	p := NewJWTProcessor(testJWTConfig)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := p.ParseAccessToken(tt.token)
			assert.Error(t, err)
			assert.Empty(t, userID)
		})
	}
}
