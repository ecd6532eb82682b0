package jwt

import (
	"errors"
	"time"

	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	jwt2 "github.com/dhillon/auth-api/internal/domain/auth/jwt"
	"github.com/dhillon/auth-api/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type SessionIssuerImpl struct {
	secret     []byte
	sessionTTL time.Duration
	issuer     string
	audience   string
}

func NewSessionIssuer(cfg *config.Config) (*SessionIssuerImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty signing secret"), "NewSessionIssuer")
	}
	return &SessionIssuerImpl{
		secret:     []byte(cfg.JWTSecret),
		sessionTTL: cfg.SessionTokenTTL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}, nil
}

func (s *SessionIssuerImpl) Issue(accountID uuid.UUID, email string, roles []string) (string, time.Time, error) {
	now := time.Now()

	claims := jwt2.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			ID:        uuid.NewString(),
		},
		Email: email,
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign session token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (s *SessionIssuerImpl) Validate(raw string) (jwt2.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt2.SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuedAt())

	if err != nil {
		// expiry is reported separately so callers can distinguish a stale
		// session from a forged one
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt2.SessionClaims{}, customErrors.ErrTokenExpired
		}
		return jwt2.SessionClaims{}, customErrors.ErrInvalidToken
	}
	if !token.Valid {
		return jwt2.SessionClaims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.SessionClaims)
	if !ok {
		return jwt2.SessionClaims{}, customErrors.WrapInternal(
			errors.New("claims not SessionClaims"), "Validate",
		)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return jwt2.SessionClaims{}, customErrors.ErrInvalidToken
	}

	if s.audience != "" {
		okAudi := false
		for _, a := range claims.Audience {
			if a == s.audience {
				okAudi = true
				break
			}
		}
		if !okAudi {
			return jwt2.SessionClaims{}, customErrors.ErrInvalidToken
		}
	}

	return *claims, nil
}
