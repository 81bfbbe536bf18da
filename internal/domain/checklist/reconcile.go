package checklist

import (
	"fmt"

	"resiplan/internal/domain/residencia"
)

// ReconcileResult holds the outcome of reconciling a week against the catalog.
type ReconcileResult struct {
	// Index maps residencia ID to its entry for the week. After ToCreate is
	// persisted and folded back via MergeCreated, every catalog residencia
	// has exactly one entry here.
	Index map[string]Entry

	// ToCreate are the missing entries with derived defaults, in catalog
	// order. They carry no IDs; the store assigns those on insert.
	ToCreate []Entry
}

// Reconcile compares the persisted entries for a week against the full
// catalog and synthesizes the missing ones. It is pure and idempotent:
// the same inputs always produce the same ToCreate set, and once those rows
// are persisted and re-fetched, ToCreate is empty.
// PRE: persisted contains only entries for weekStart (caller pre-filters)
// POST: Index holds all persisted entries; ToCreate holds one default entry
// per catalog residencia absent from Index
func Reconcile(catalog []residencia.Residencia, persisted []Entry, weekStart string) (ReconcileResult, error) {
	index := make(map[string]Entry, len(catalog))
	for _, e := range persisted {
		if e.WeekStart != weekStart {
			return ReconcileResult{}, fmt.Errorf("entry %s belongs to week %s, not %s", e.ID, e.WeekStart, weekStart)
		}
		index[e.ResidenciaID] = e
	}

	var toCreate []Entry
	for _, r := range catalog {
		if _, ok := index[r.ID]; ok {
			continue
		}
		e, err := NewForWeek(r, weekStart)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("derive defaults for %s: %w", r.ID, err)
		}
		toCreate = append(toCreate, e)
	}

	return ReconcileResult{Index: index, ToCreate: toCreate}, nil
}

// MergeCreated folds the now-persisted rows (with IDs assigned by the store)
// back into the index. Rows already present are replaced by the canonical
// stored version.
// POST: index contains one entry per created row's residencia
func MergeCreated(index map[string]Entry, created []Entry) {
	for _, e := range created {
		index[e.ResidenciaID] = e
	}
}
