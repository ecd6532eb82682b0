package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Account{}, &model.VerificationToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPostgresAccountRepo_CRUD(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	account := model.Account{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "h",
		Roles:        []string{"USER"},
		CreatedAt:    time.Now(),
	}
	id, err := repo.Create(ctx, account)
	if err != nil || id != account.ID {
		t.Fatalf("create %v", err)
	}
	got, err := repo.GetByEmail(ctx, account.Email)
	if err != nil || got.ID != account.ID {
		t.Fatalf("get by email %v", err)
	}
	if got.Enabled {
		t.Fatal("account must start disabled")
	}
	if len(got.Roles) != 1 || got.Roles[0] != "USER" {
		t.Fatalf("roles not round-tripped: %v", got.Roles)
	}
	got2, err := repo.GetByID(ctx, account.ID)
	if err != nil || got2.Email != account.Email {
		t.Fatalf("get by id %v", err)
	}
	got3, err := repo.GetByUsername(ctx, account.Username)
	if err != nil || got3.ID != account.ID {
		t.Fatalf("get by username %v", err)
	}
	if err := repo.Delete(ctx, account.ID); err != nil {
		t.Fatalf("delete %v", err)
	}
	if _, err := repo.GetByID(ctx, account.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found")
	}
	if err := repo.Delete(ctx, account.ID); !errors.IsNotFound(err) {
		t.Fatalf("expected not found on double delete")
	}
}

func TestPostgresAccountRepo_DuplicateEmail(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	first := model.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create %v", err)
	}

	second := model.Account{ID: uuid.New(), Username: "bob", Email: "alice@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, second); !errors.IsEmailTaken(err) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestPostgresAccountRepo_DuplicateUsername(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	first := model.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create %v", err)
	}

	second := model.Account{ID: uuid.New(), Username: "alice", Email: "bob@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, second); !errors.IsUsernameTaken(err) {
		t.Fatalf("expected username taken, got %v", err)
	}
}

func TestPostgresAccountRepo_SetEnabledIdempotent(t *testing.T) {
	repo := NewPostgresAccountRepo(setupDB(t))
	ctx := context.Background()

	account := model.Account{ID: uuid.New(), Username: "alice", Email: "alice@x.com", PasswordHash: "h"}
	if _, err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create %v", err)
	}

	if err := repo.SetEnabled(ctx, account.ID, true); err != nil {
		t.Fatalf("set enabled %v", err)
	}
	// enabling an already-enabled account is a no-op success
	if err := repo.SetEnabled(ctx, account.ID, true); err != nil {
		t.Fatalf("set enabled twice %v", err)
	}

	got, err := repo.GetByID(ctx, account.ID)
	if err != nil || !got.Enabled {
		t.Fatalf("expected enabled account, err=%v", err)
	}
}
