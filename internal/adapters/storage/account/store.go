package account

import (
	"context"
	"errors"

	"resiplan/internal/domain/account"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

// Store defines persistence operations for accounts.
type Store interface {
	// Create inserts a new account.
	// PRE: a.ID is set and unique; a.Email is unique
	// POST: account is persisted
	Create(ctx context.Context, a account.Account) error

	// GetByID retrieves an account by ID.
	// POST: returns the account or ErrNotFound
	GetByID(ctx context.Context, id string) (account.Account, error)

	// GetByEmail retrieves an account by email.
	// POST: returns the account or ErrNotFound
	GetByEmail(ctx context.Context, email string) (account.Account, error)

	// Update rewrites all mutable fields of an existing account.
	// POST: stored row matches a, or ErrNotFound
	Update(ctx context.Context, a account.Account) error

	// List returns all accounts ordered by email.
	List(ctx context.Context) ([]account.Account, error)
}
