package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resiplan/internal/adapters/storage"
	"resiplan/internal/domain/account"
)

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLite-backed account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Create(ctx context.Context, a account.Account) error {
	lockedUntil := sql.NullString{}
	if !a.LockedUntil.IsZero() {
		lockedUntil = sql.NullString{String: a.LockedUntil.Format(time.RFC3339), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, created_at, failed_logins, locked_until)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt.Format(time.RFC3339), a.FailedLogins, lockedUntil)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		 FROM account WHERE id = ?`, id)
	return scanAccount(row)
}

func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		 FROM account WHERE email = ?`, email)
	return scanAccount(row)
}

func (s *SQLiteStore) Update(ctx context.Context, a account.Account) error {
	lockedUntil := sql.NullString{}
	if !a.LockedUntil.IsZero() {
		lockedUntil = sql.NullString{String: a.LockedUntil.Format(time.RFC3339), Valid: true}
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE account SET email = ?, password_hash = ?, role = ?, failed_logins = ?, locked_until = ?
		 WHERE id = ?`,
		a.Email, a.PasswordHash, a.Role, a.FailedLogins, lockedUntil, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]account.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, password_hash, role, created_at, failed_logins, locked_until
		 FROM account ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		a, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func scanAccount(row *sql.Row) (account.Account, error) {
	var a account.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdAt, &a.FailedLogins, &lockedUntil)
	if err == sql.ErrNoRows {
		return account.Account{}, ErrNotFound
	}
	if err != nil {
		return account.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}
	return hydrateAccount(a, createdAt, lockedUntil)
}

func scanAccountRows(rows *sql.Rows) (account.Account, error) {
	var a account.Account
	var createdAt string
	var lockedUntil sql.NullString
	if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return account.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}
	return hydrateAccount(a, createdAt, lockedUntil)
}

func hydrateAccount(a account.Account, createdAt string, lockedUntil sql.NullString) (account.Account, error) {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return account.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	a.CreatedAt = t
	if lockedUntil.Valid {
		lu, err := time.Parse(time.RFC3339, lockedUntil.String)
		if err != nil {
			return account.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
		}
		a.LockedUntil = lu
	}
	return a, nil
}
