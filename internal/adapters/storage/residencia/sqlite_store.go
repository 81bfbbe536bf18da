package residencia

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"resiplan/internal/adapters/storage"
	"resiplan/internal/domain/residencia"
)

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLite-backed residencia store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const residenciaColumns = `id, name, delivery_day, biweekly, biweekly_offset, prep_days, patients, floors`

func (s *SQLiteStore) List(ctx context.Context) ([]residencia.Residencia, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+residenciaColumns+` FROM residencia ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list residencias: %w", err)
	}
	defer rows.Close()

	var list []residencia.Residencia
	for rows.Next() {
		var r residencia.Residencia
		var prepDays string
		if err := rows.Scan(&r.ID, &r.Name, &r.FixedDeliveryDay, &r.Biweekly, &r.BiweeklyOffset, &prepDays, &r.Patients, &r.Floors); err != nil {
			return nil, fmt.Errorf("failed to scan residencia: %w", err)
		}
		r.PrepOnDays = splitPrepDays(prepDays)
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (residencia.Residencia, error) {
	var r residencia.Residencia
	var prepDays string
	err := s.db.QueryRowContext(ctx,
		`SELECT `+residenciaColumns+` FROM residencia WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.FixedDeliveryDay, &r.Biweekly, &r.BiweeklyOffset, &prepDays, &r.Patients, &r.Floors)
	if err == sql.ErrNoRows {
		return residencia.Residencia{}, ErrNotFound
	}
	if err != nil {
		return residencia.Residencia{}, fmt.Errorf("failed to get residencia: %w", err)
	}
	r.PrepOnDays = splitPrepDays(prepDays)
	return r, nil
}

func (s *SQLiteStore) Save(ctx context.Context, r residencia.Residencia) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO residencia (`+residenciaColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 	name = excluded.name,
		 	delivery_day = excluded.delivery_day,
		 	biweekly = excluded.biweekly,
		 	biweekly_offset = excluded.biweekly_offset,
		 	prep_days = excluded.prep_days,
		 	patients = excluded.patients,
		 	floors = excluded.floors`,
		r.ID, r.Name, r.FixedDeliveryDay, r.Biweekly, r.BiweeklyOffset,
		strings.Join(r.PrepOnDays, ","), r.Patients, r.Floors)
	if err != nil {
		return fmt.Errorf("failed to save residencia: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateWorkload(ctx context.Context, id string, patients, floors int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE residencia SET patients = ?, floors = ? WHERE id = ?`,
		patients, floors, id)
	if err != nil {
		return fmt.Errorf("failed to update workload: %w", err)
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

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	// Checklist rows go first so the foreign key never dangles.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checklist_item WHERE residencia_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete checklist entries: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM residencia WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete residencia: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func splitPrepDays(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
