package orchestrators

import (
	"context"
	"log/slog"

	"resiplan/internal/domain/checklist"
	"resiplan/internal/domain/residencia"
)

// ResidenciaStoreForUpdateEntry defines the store interface needed by UpdateEntry.
type ResidenciaStoreForUpdateEntry interface {
	GetByID(ctx context.Context, id string) (residencia.Residencia, error)
}

// ChecklistStoreForUpdateEntry defines the store interface needed by UpdateEntry.
type ChecklistStoreForUpdateEntry interface {
	GetByKey(ctx context.Context, residenciaID, weekStart string) (checklist.Entry, error)
	Upsert(ctx context.Context, e checklist.Entry) (checklist.Entry, error)
}

// UpdateEntryInput carries an operator's partial edit of one week entry.
type UpdateEntryInput struct {
	ResidenciaID string
	WeekStart    string
	Patch        checklist.Patch
}

// UpdateEntryDeps holds dependencies for UpdateEntry.
type UpdateEntryDeps struct {
	ResidenciaStore ResidenciaStoreForUpdateEntry
	ChecklistStore  ChecklistStoreForUpdateEntry
}

// ExecuteUpdateEntry merges a partial edit onto the stored entry and
// persists it, returning the canonical stored row. When the entry does not
// exist yet (edit racing the first reconciliation) a default entry is
// synthesized first so the patch never gets lost.
// PRE: input identifies a catalog residencia and a Monday week start
// POST: stored entry carries the patched fields; untouched fields survive
func ExecuteUpdateEntry(ctx context.Context, input UpdateEntryInput, deps UpdateEntryDeps) (checklist.Entry, error) {
	r, err := deps.ResidenciaStore.GetByID(ctx, input.ResidenciaID)
	if err != nil {
		return checklist.Entry{}, err
	}

	current, err := deps.ChecklistStore.GetByKey(ctx, input.ResidenciaID, input.WeekStart)
	if err != nil {
		current, err = checklist.NewForWeek(r, input.WeekStart)
		if err != nil {
			return checklist.Entry{}, err
		}
	}

	patched := current.Apply(input.Patch)
	if err := patched.Validate(); err != nil {
		return checklist.Entry{}, err
	}

	stored, err := deps.ChecklistStore.Upsert(ctx, patched)
	if err != nil {
		return checklist.Entry{}, err
	}

	slog.Info("checklist_event", "event", "entry_updated",
		"residencia_id", input.ResidenciaID, "week_start", input.WeekStart)
	return stored, nil
}
