package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/google/uuid"
)

func TestPostgresTokenRepo_CreateAndLookup(t *testing.T) {
	repo := NewPostgresTokenRepo(setupDB(t))
	ctx := context.Background()

	accountID := uuid.New()
	token := model.VerificationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	id, err := repo.Create(ctx, token)
	if err != nil || id != token.ID {
		t.Fatalf("create %v", err)
	}

	got, err := repo.GetByToken(ctx, token.Token)
	if err != nil || got.AccountID != accountID {
		t.Fatalf("get by token %v", err)
	}
	if got.Consumed() {
		t.Fatal("fresh token must not be consumed")
	}

	byAccount, err := repo.GetByAccount(ctx, accountID)
	if err != nil || len(byAccount) != 1 {
		t.Fatalf("get by account %v (%d)", err, len(byAccount))
	}

	if _, err := repo.GetByToken(ctx, "absent"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresTokenRepo_Consume(t *testing.T) {
	repo := NewPostgresTokenRepo(setupDB(t))
	ctx := context.Background()

	token := model.VerificationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		AccountID: uuid.New(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if _, err := repo.Create(ctx, token); err != nil {
		t.Fatalf("create %v", err)
	}

	if err := repo.Consume(ctx, token.Token, time.Now()); err != nil {
		t.Fatalf("consume %v", err)
	}

	got, err := repo.GetByToken(ctx, token.Token)
	if err != nil || !got.Consumed() {
		t.Fatalf("token must be consumed, err=%v", err)
	}

	// second consume finds no unconsumed row
	if err := repo.Consume(ctx, token.Token, time.Now()); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on double consume, got %v", err)
	}
}
