package jwt

import (
	"strings"
	"testing"
	"time"

	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/infra/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T, ttl time.Duration) *SessionIssuerImpl {
	t.Helper()
	iss, err := NewSessionIssuer(&config.Config{
		JWTSecret:       "test-secret",
		SessionTokenTTL: ttl,
		Issuer:          "auth-api",
		Audience:        "web",
	})
	require.NoError(t, err)
	return iss
}

func TestIssueValidateRoundTrip(t *testing.T) {
	iss := newIssuer(t, time.Hour)
	id := uuid.New()

	token, exp, err := iss.Issue(id, "alice@x.com", []string{"USER"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Validate(token)
	require.NoError(t, err)
	require.Equal(t, id.String(), claims.Subject)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, []string{"USER"}, claims.Roles)
}

func TestValidateExpired(t *testing.T) {
	iss := newIssuer(t, -time.Minute)

	token, _, err := iss.Issue(uuid.New(), "alice@x.com", nil)
	require.NoError(t, err)

	_, err = iss.Validate(token)
	require.ErrorIs(t, err, customErrors.ErrTokenExpired)
}

func TestValidateTampered(t *testing.T) {
	iss := newIssuer(t, time.Hour)

	token, _, err := iss.Issue(uuid.New(), "alice@x.com", nil)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	_, err = iss.Validate(tampered)
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	iss := newIssuer(t, time.Hour)
	token, _, err := iss.Issue(uuid.New(), "alice@x.com", nil)
	require.NoError(t, err)

	other, err := NewSessionIssuer(&config.Config{
		JWTSecret:       "different-secret",
		SessionTokenTTL: time.Hour,
		Issuer:          "auth-api",
		Audience:        "web",
	})
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	iss := newIssuer(t, time.Hour)

	_, err := iss.Validate("not-a-jwt")
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestValidateWrongAudience(t *testing.T) {
	iss := newIssuer(t, time.Hour)
	token, _, err := iss.Issue(uuid.New(), "alice@x.com", nil)
	require.NoError(t, err)

	other, err := NewSessionIssuer(&config.Config{
		JWTSecret:       "test-secret",
		SessionTokenTTL: time.Hour,
		Issuer:          "auth-api",
		Audience:        "mobile",
	})
	require.NoError(t, err)

	_, err = other.Validate(token)
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}
