package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex:uq_accounts_username;not null"`
	Email        string    `gorm:"uniqueIndex:uq_accounts_email;not null"`
	PasswordHash string    `gorm:"not null"`
	Enabled      bool      `gorm:"not null;default:false"`
	Roles        []string  `gorm:"serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type VerificationToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token      string    `gorm:"uniqueIndex:uq_verification_tokens_token;not null"`
	AccountID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Consumed reports whether the token has already been used to
// activate its account.
func (t VerificationToken) Consumed() bool {
	return t.ConsumedAt != nil
}

// Expired reports whether the token's expiry timestamp has passed.
func (t VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Session is the signed credential returned on successful login.
// It is never persisted; validity is a function of signature and expiry.
type Session struct {
	Token     string
	TTL       time.Duration
	AccountID uuid.UUID
}
