package residencia

import (
	"context"
	"errors"

	"resiplan/internal/domain/residencia"
)

// ErrNotFound is returned when a residencia does not exist.
var ErrNotFound = errors.New("residencia not found")

// Store defines persistence operations for the residencia catalog.
type Store interface {
	// List returns all residencias ordered by name ascending.
	List(ctx context.Context) ([]residencia.Residencia, error)

	// GetByID retrieves a residencia by ID.
	// POST: returns the residencia or ErrNotFound
	GetByID(ctx context.Context, id string) (residencia.Residencia, error)

	// Save inserts or fully replaces a residencia, keyed by ID.
	// PRE: r.ID is set and r passed Validate
	// POST: stored row matches r
	Save(ctx context.Context, r residencia.Residencia) error

	// UpdateWorkload sets only the patients and floors columns.
	// PRE: patients and floors are already clamped
	// POST: columns updated, or ErrNotFound
	UpdateWorkload(ctx context.Context, id string, patients, floors int) error

	// Delete removes a residencia and its checklist entries.
	// POST: row removed, or ErrNotFound
	Delete(ctx context.Context, id string) error
}
