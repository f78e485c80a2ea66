package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/auth"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.tripwise.app",
		Audience:   "tripwise-api",
	})

	token, expiresAt, err := svc.Issue("usr_test123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_test123", claims.UserID)
	assert.Equal(t, "usr_test123", claims.Subject)
	assert.Equal(t, "https://api.tripwise.app", claims.Issuer)
}

func TestTokenService_InvalidToken(t *testing.T) {
	svc := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.tripwise.app",
		Audience:   "tripwise-api",
	})

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_WrongSigningKey(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "key-one",
		Issuer:     "https://api.tripwise.app",
		Audience:   "tripwise-api",
	})

	token, _, err := svc1.Issue("usr_test123")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "key-two",
		Issuer:     "https://api.tripwise.app",
		Audience:   "tripwise-api",
	})

	_, err = svc2.Validate(token)
	assert.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-key",
		Issuer:     "issuer-one",
		Audience:   "tripwise-api",
	})

	token, _, err := svc1.Issue("usr_test123")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-key",
		Issuer:     "issuer-two",
		Audience:   "tripwise-api",
	})

	_, err = svc2.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_WrongAudience(t *testing.T) {
	svc1 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-key",
		Issuer:     "https://api.tripwise.app",
		Audience:   "audience-one",
	})

	token, _, err := svc1.Issue("usr_test123")
	require.NoError(t, err)

	svc2 := auth.NewTokenService(auth.TokenConfig{
		SigningKey: "test-key",
		Issuer:     "https://api.tripwise.app",
		Audience:   "audience-two",
	})

	_, err = svc2.Validate(token)
	assert.Error(t, err)
}
