package checklist

import (
	"context"
	"errors"

	"resiplan/internal/domain/checklist"
)

// ErrNotFound is returned when a checklist entry does not exist.
var ErrNotFound = errors.New("checklist entry not found")

// Store defines persistence operations for weekly checklist entries.
type Store interface {
	// ListForWeek returns all entries whose week_start equals weekStart.
	ListForWeek(ctx context.Context, weekStart string) ([]checklist.Entry, error)

	// GetByKey retrieves the entry for a (residencia, week) pair.
	// POST: returns the entry or ErrNotFound
	GetByKey(ctx context.Context, residenciaID, weekStart string) (checklist.Entry, error)

	// CreateMissing inserts default entries, skipping any (residencia, week)
	// pair that already has a row. The returned slice holds the canonical
	// stored rows for every requested pair, whether freshly inserted or
	// pre-existing.
	// PRE: entries passed Validate; IDs may be empty (assigned on insert)
	// POST: every pair has exactly one row; existing rows are untouched
	CreateMissing(ctx context.Context, entries []checklist.Entry) ([]checklist.Entry, error)

	// Upsert inserts or replaces the entry for its (residencia, week) pair
	// and returns the canonical stored row.
	// PRE: e passed Validate
	// POST: stored row carries e's flags, dates and notes
	Upsert(ctx context.Context, e checklist.Entry) (checklist.Entry, error)
}
