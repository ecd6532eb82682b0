package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of a session credential: the account id
// travels in the subject, the email in a private claim.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

type SessionIssuer interface {
	Issue(accountID uuid.UUID, email string, roles []string) (token string, exp time.Time, err error)
	Validate(raw string) (SessionClaims, error)
}
