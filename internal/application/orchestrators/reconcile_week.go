package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resiplan/internal/application/projections"
	"resiplan/internal/domain/checklist"
	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

// ResidenciaStoreForReconcile defines the store interface needed by ReconcileWeek.
type ResidenciaStoreForReconcile interface {
	List(ctx context.Context) ([]residencia.Residencia, error)
}

// ChecklistStoreForReconcile defines the store interface needed by ReconcileWeek.
type ChecklistStoreForReconcile interface {
	ListForWeek(ctx context.Context, weekStart string) ([]checklist.Entry, error)
	CreateMissing(ctx context.Context, entries []checklist.Entry) ([]checklist.Entry, error)
}

// ReconcileWeekInput carries input for the reconciliation orchestrator.
type ReconcileWeekInput struct {
	WeekStart string // ISO date, must be a Monday
}

// ReconcileWeekDeps holds dependencies for ReconcileWeek.
type ReconcileWeekDeps struct {
	ResidenciaStore ResidenciaStoreForReconcile
	ChecklistStore  ChecklistStoreForReconcile
}

// ErrNotAWeekStart is returned when the requested date is not a Monday.
var ErrNotAWeekStart = errors.New("week start must be a Monday")

// ExecuteReconcileWeek loads the catalog and the week's entries, creates
// default entries for any residencia without one, and returns the complete
// week state. Existing entries are never modified.
// PRE: input.WeekStart is an ISO date
// POST: returned state has exactly one entry per catalog residencia
// INVARIANT: rows already persisted keep their flags, dates and notes
func ExecuteReconcileWeek(ctx context.Context, input ReconcileWeekInput, deps ReconcileWeekDeps) (projections.WeekState, error) {
	day, err := time.Parse(week.ISO, input.WeekStart)
	if err != nil {
		return projections.WeekState{}, week.ErrInvalidDate
	}
	if day.Weekday() != time.Monday {
		return projections.WeekState{}, ErrNotAWeekStart
	}

	catalog, err := deps.ResidenciaStore.List(ctx)
	if err != nil {
		return projections.WeekState{}, err
	}
	persisted, err := deps.ChecklistStore.ListForWeek(ctx, input.WeekStart)
	if err != nil {
		return projections.WeekState{}, err
	}

	result, err := checklist.Reconcile(catalog, persisted, input.WeekStart)
	if err != nil {
		return projections.WeekState{}, err
	}

	if len(result.ToCreate) > 0 {
		created, err := deps.ChecklistStore.CreateMissing(ctx, result.ToCreate)
		if err != nil {
			return projections.WeekState{}, err
		}
		checklist.MergeCreated(result.Index, created)
		slog.Info("reconcile_event", "event", "entries_created", "week_start", input.WeekStart, "count", len(created))
	}

	return projections.WeekState{
		WeekStart: input.WeekStart,
		Catalog:   catalog,
		Index:     result.Index,
	}, nil
}
