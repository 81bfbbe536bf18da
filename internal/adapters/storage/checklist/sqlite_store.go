package checklist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resiplan/internal/adapters/storage"
	"resiplan/internal/domain/checklist"
)

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLite-backed checklist store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const entryColumns = `id, residencia_id, week_start, changes_done, reviewed, packed, prep_date, deliver_date, notes, updated_at`

func (s *SQLiteStore) ListForWeek(ctx context.Context, weekStart string) ([]checklist.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM checklist_item WHERE week_start = ?`, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist entries: %w", err)
	}
	defer rows.Close()

	var entries []checklist.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) GetByKey(ctx context.Context, residenciaID, weekStart string) (checklist.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM checklist_item WHERE residencia_id = ? AND week_start = ?`,
		residenciaID, weekStart)
	return scanEntryRow(row)
}

// CreateMissing inserts defaults with ON CONFLICT DO NOTHING so that a row
// written by a concurrent reconciliation (or an operator edit racing the
// page load) is never overwritten. The canonical row is re-selected after
// each insert attempt.
func (s *SQLiteStore) CreateMissing(ctx context.Context, entries []checklist.Entry) ([]checklist.Entry, error) {
	canonical := make([]checklist.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = time.Now().UTC()
		}
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO checklist_item (`+entryColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(residencia_id, week_start) DO NOTHING`,
			e.ID, e.ResidenciaID, e.WeekStart, e.ChangesDone, e.Reviewed, e.Packed,
			e.PrepDate, e.DeliverDate, e.Notes, e.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("failed to create checklist entry: %w", err)
		}
		stored, err := s.GetByKey(ctx, e.ResidenciaID, e.WeekStart)
		if err != nil {
			return nil, err
		}
		canonical = append(canonical, stored)
	}
	return canonical, nil
}

// Upsert writes an operator edit. Conflicts resolve last-write-wins on the
// (residencia_id, week_start) pair; the row id of the first writer survives.
func (s *SQLiteStore) Upsert(ctx context.Context, e checklist.Entry) (checklist.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checklist_item (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(residencia_id, week_start) DO UPDATE SET
		 	changes_done = excluded.changes_done,
		 	reviewed = excluded.reviewed,
		 	packed = excluded.packed,
		 	prep_date = excluded.prep_date,
		 	deliver_date = excluded.deliver_date,
		 	notes = excluded.notes,
		 	updated_at = excluded.updated_at`,
		e.ID, e.ResidenciaID, e.WeekStart, e.ChangesDone, e.Reviewed, e.Packed,
		e.PrepDate, e.DeliverDate, e.Notes, e.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return checklist.Entry{}, fmt.Errorf("failed to upsert checklist entry: %w", err)
	}
	return s.GetByKey(ctx, e.ResidenciaID, e.WeekStart)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntryRow(row *sql.Row) (checklist.Entry, error) {
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return checklist.Entry{}, ErrNotFound
	}
	return e, err
}

func scanEntry(row scannable) (checklist.Entry, error) {
	var e checklist.Entry
	var updatedAt string
	err := row.Scan(&e.ID, &e.ResidenciaID, &e.WeekStart, &e.ChangesDone, &e.Reviewed, &e.Packed,
		&e.PrepDate, &e.DeliverDate, &e.Notes, &updatedAt)
	if err == sql.ErrNoRows {
		return checklist.Entry{}, err
	}
	if err != nil {
		return checklist.Entry{}, fmt.Errorf("failed to scan checklist entry: %w", err)
	}
	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return checklist.Entry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	e.UpdatedAt = t
	return e, nil
}
