package postgres

import (
	"context"
	"errors"
	"time"

	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTokenRepo struct {
	db *gorm.DB
}

func NewPostgresTokenRepo(db *gorm.DB) *PostgresTokenRepo {
	return &PostgresTokenRepo{db: db}
}

func (p *PostgresTokenRepo) Create(ctx context.Context, token model.VerificationToken) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&token)
	if err := res.Error; err != nil {
		return uuid.Nil, wrapStoreErr(err, "CreateToken")
	}
	return token.ID, nil
}

func (p *PostgresTokenRepo) GetByToken(ctx context.Context, token string) (model.VerificationToken, error) {
	var t model.VerificationToken
	res := p.db.WithContext(ctx).Where("token = ?", token).First(&t)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.VerificationToken{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.VerificationToken{}, wrapStoreErr(err, "GetTokenByToken")
	}

	return t, nil
}

func (p *PostgresTokenRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]model.VerificationToken, error) {
	var tokens []model.VerificationToken
	res := p.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&tokens)
	if err := res.Error; err != nil {
		return nil, wrapStoreErr(err, "GetTokensByAccount")
	}
	return tokens, nil
}

// Consume stamps the token as used. Only an unconsumed token is
// updated, so the first consumer wins.
func (p *PostgresTokenRepo) Consume(ctx context.Context, token string, at time.Time) error {
	res := p.db.WithContext(ctx).
		Model(&model.VerificationToken{}).
		Where("token = ? AND consumed_at IS NULL", token).
		Update("consumed_at", at)
	if err := res.Error; err != nil {
		return wrapStoreErr(err, "ConsumeToken")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
