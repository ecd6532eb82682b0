package service

import (
	"context"
	"errors"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dhillon/auth-api/internal/adapters/transport/http/dto"
	"github.com/dhillon/auth-api/internal/app/auth/hash"
	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"
	"github.com/dhillon/auth-api/internal/domain/auth/jwt"
	"github.com/dhillon/auth-api/internal/domain/auth/model"
	"github.com/dhillon/auth-api/internal/domain/auth/notify"
	repo "github.com/dhillon/auth-api/internal/domain/auth/repo"
	"github.com/dhillon/auth-api/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authService struct {
	accountRepo repo.AccountRepo
	tokenRepo   repo.TokenRepo
	hasher      *hash.Hasher
	issuer      jwt.SessionIssuer
	notifier    notify.Notifier
	cfg         *config.Config
	v           *validator.Validate
	log         *zap.Logger
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.Account, error)
	Verify(context.Context, dto.VerifyDTO) error
	Login(context.Context, dto.LoginDTO) (model.Session, error)
	ValidateSession(context.Context, dto.ValidateDTO) (model.Account, error)
	DeleteAccount(context.Context, uuid.UUID) error
}

func New(
	ar repo.AccountRepo,
	tr repo.TokenRepo,
	h *hash.Hasher,
	iss jwt.SessionIssuer,
	n notify.Notifier,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		accountRepo: ar, tokenRepo: tr, hasher: h, issuer: iss,
		notifier: n, cfg: cfg, v: v, log: log,
	}
}

// Register creates a disabled account and mails out its verification
// token. Email uniqueness is checked before username uniqueness, and
// whichever fails first is the reported error. The pre-checks are a
// fast path only: a concurrent insert slipping past them resolves at
// the store's unique index, which the repo maps to the same errors.
func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := a.accountRepo.GetByEmail(ctx, in.Email); err == nil {
		return model.Account{}, customErrors.ErrEmailTaken
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return model.Account{}, err
	}

	if _, err := a.accountRepo.GetByUsername(ctx, in.Username); err == nil {
		return model.Account{}, customErrors.ErrUsernameTaken
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return model.Account{}, err
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.Account{}, err
	}

	account := model.Account{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Enabled:      false,
		Roles:        in.Roles,
	}
	if _, err = a.accountRepo.Create(ctx, account); err != nil {
		return model.Account{}, err
	}

	token := model.VerificationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(a.cfg.VerificationTokenTTL),
	}
	if _, err = a.tokenRepo.Create(ctx, token); err != nil {
		return model.Account{}, err
	}

	// fire-and-forget: the account and token are already persisted, a
	// failed send must not unwind registration
	if err = a.notifier.SendVerificationEmail(ctx, account.Email, token.Token); err != nil {
		a.log.Warn("verification email not sent",
			zap.String("account_id", account.ID.String()),
			zap.Error(err),
		)
	}

	return account, nil
}

// Verify consumes a verification token and activates its account.
// Activation is idempotent: a token that was already consumed for an
// account that is enabled reports success.
func (a *authService) Verify(ctx context.Context, in dto.VerifyDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	token, err := a.tokenRepo.GetByToken(ctx, in.Token)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.ErrInvalidToken
	case err != nil:
		return err
	}

	account, err := a.accountRepo.GetByID(ctx, token.AccountID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// data-integrity anomaly: token survived its account
		return customErrors.ErrNotFound
	case err != nil:
		return err
	}

	if token.Consumed() {
		if account.Enabled {
			return nil
		}
		return customErrors.ErrInvalidToken
	}

	if token.Expired(time.Now()) {
		return customErrors.ErrTokenExpired
	}

	if err := a.accountRepo.SetEnabled(ctx, account.ID, true); err != nil {
		return err
	}
	if err := a.tokenRepo.Consume(ctx, token.Token, time.Now()); err != nil {
		return err
	}
	return nil
}

// Login authenticates credentials against a verified account. Unknown
// email and unverified account report the same generic error to avoid
// account enumeration; a wrong password for a verified account is
// reported distinctly.
func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	account, err := a.accountRepo.GetByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Session{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.Session{}, err
	}

	if !account.Enabled {
		return model.Session{}, customErrors.ErrInvalidCredentials
	}

	ok, err := a.hasher.Verify(in.Password, account.PasswordHash)
	if err != nil {
		return model.Session{}, err
	}
	if !ok {
		return model.Session{}, customErrors.ErrAuthenticationFailed
	}

	signed, exp, err := a.issuer.Issue(account.ID, account.Email, account.Roles)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		Token:     signed,
		TTL:       time.Until(exp),
		AccountID: account.ID,
	}, nil
}

// ValidateSession resolves a session token back to its account.
func (a *authService) ValidateSession(ctx context.Context, in dto.ValidateDTO) (model.Account, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Account{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.issuer.Validate(in.SessionToken)
	if err != nil {
		return model.Account{}, err
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Account{}, customErrors.ErrInvalidToken
	}

	account, err := a.accountRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.Account{}, customErrors.ErrInvalidToken
		}
		return model.Account{}, err
	}
	return account, nil
}

// DeleteAccount is the out-of-band administrative removal; it is not
// part of the registration/verification state machine.
func (a *authService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return a.accountRepo.Delete(ctx, id)
}

// RegisterPasswordRule installs the password-strength rule the
// RegisterDTO tag refers to: at least 8 runes with an upper-case letter
// and a digit.
func RegisterPasswordRule(v *validator.Validate) error {
	return v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return utf8.RuneCountInString(pwd) >= 8 && hasUpper && hasDigit
	})
}
