package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resiplan/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Create(ctx context.Context, a account.Account) error
}

// CreateAccountInput carries input for the account creation orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

// ExecuteCreateAccount validates and creates a new account. If an account
// with the same email already exists it is returned unchanged, which makes
// startup seeding idempotent.
// PRE: input.Password meets the domain minimum length
// POST: an account with input.Email exists
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	if existing, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return existing, nil
	}

	acct := account.Account{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	if err := deps.AccountStore.Create(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)
	return acct, nil
}
