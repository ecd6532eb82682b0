package repo

import (
	"context"
	"time"

	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/google/uuid"
)

// AccountRepo owns Account rows. Create must fail with
// errors.ErrEmailTaken / errors.ErrUsernameTaken on a unique-index
// violation of the respective column; the repo, not its callers, is the
// authoritative uniqueness check.
type AccountRepo interface {
	Create(ctx context.Context, account model.Account) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.Account, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenRepo owns single-use verification tokens.
type TokenRepo interface {
	Create(ctx context.Context, token model.VerificationToken) (uuid.UUID, error)
	GetByToken(ctx context.Context, token string) (model.VerificationToken, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]model.VerificationToken, error)
	Consume(ctx context.Context, token string, at time.Time) error
}
