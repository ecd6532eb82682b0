package postgres

import (
	"context"
	"errors"
	"strings"

	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

type PostgresAccountRepo struct {
	db *gorm.DB
}

func NewPostgresAccountRepo(db *gorm.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// Create inserts the account. The unique indexes on email and username
// are the authoritative duplicate check: a violation is mapped back to
// the field that caused it so racing registrations get the same error
// the pre-check would have produced.
func (p *PostgresAccountRepo) Create(ctx context.Context, account model.Account) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&account)
	if err := res.Error; err != nil {
		if dup, field := duplicateField(err); dup {
			switch field {
			case "email":
				return uuid.Nil, customErrors.ErrEmailTaken
			case "username":
				return uuid.Nil, customErrors.ErrUsernameTaken
			}
		}
		return uuid.Nil, wrapStoreErr(err, "CreateAccount")
	}
	return account.ID, nil
}

func (p *PostgresAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where("id = ?", id).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, wrapStoreErr(err, "GetAccountByID")
	}

	return a, nil
}

func (p *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, wrapStoreErr(err, "GetAccountByEmail")
	}

	return a, nil
}

func (p *PostgresAccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	var a model.Account
	res := p.db.WithContext(ctx).Where("username = ?", username).First(&a)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Account{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Account{}, wrapStoreErr(err, "GetAccountByUsername")
	}

	return a, nil
}

// SetEnabled is idempotent: updating an account that already has the
// target state affects no rows and still succeeds.
func (p *PostgresAccountRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	res := p.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("enabled", enabled)
	if err := res.Error; err != nil {
		return wrapStoreErr(err, "SetEnabled")
	}
	return nil
}

func (p *PostgresAccountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Delete(&model.Account{}, "id = ?", id)
	if err := res.Error; err != nil {
		return wrapStoreErr(err, "DeleteAccount")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}

	return nil
}

// duplicateField recognizes a unique-constraint violation and names the
// column it hit. Postgres reports SQLSTATE 23505 with the constraint
// name; the sqlite driver used in tests only gives the message text.
func duplicateField(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false, ""
		}
		return true, constraintColumn(pgErr.ConstraintName)
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") {
		return false, ""
	}
	return true, constraintColumn(msg)
}

func constraintColumn(s string) string {
	switch {
	case strings.Contains(s, "email"):
		return "email"
	case strings.Contains(s, "username"):
		return "username"
	default:
		return ""
	}
}

// wrapStoreErr keeps timeouts and cancellations out of the credential
// error space: they surface as a transient store failure.
func wrapStoreErr(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return customErrors.WrapUnavailable(err, op)
	}
	return customErrors.WrapInternal(err, op)
}
