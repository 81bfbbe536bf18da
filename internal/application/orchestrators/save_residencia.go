package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"resiplan/internal/domain/residencia"
)

// ResidenciaStoreForSave defines the store interface needed by SaveResidencia.
type ResidenciaStoreForSave interface {
	Save(ctx context.Context, r residencia.Residencia) error
	Delete(ctx context.Context, id string) error
}

// SaveResidenciaInput carries a catalog create or edit.
type SaveResidenciaInput struct {
	Residencia residencia.Residencia // ID empty on create
}

// SaveResidenciaDeps holds dependencies for SaveResidencia.
type SaveResidenciaDeps struct {
	ResidenciaStore ResidenciaStoreForSave
}

// ExecuteSaveResidencia validates and persists a catalog entry, assigning an
// ID on create.
// POST: the stored row matches the validated input
func ExecuteSaveResidencia(ctx context.Context, input SaveResidenciaInput, deps SaveResidenciaDeps) (residencia.Residencia, error) {
	r := input.Residencia
	if err := r.Validate(); err != nil {
		return residencia.Residencia{}, err
	}

	event := "residencia_updated"
	if r.ID == "" {
		r.ID = uuid.NewString()
		event = "residencia_created"
	}

	if err := deps.ResidenciaStore.Save(ctx, r); err != nil {
		return residencia.Residencia{}, err
	}

	slog.Info("catalog_event", "event", event, "residencia_id", r.ID, "name", r.Name)
	return r, nil
}

// ExecuteDeleteResidencia removes a residencia and its checklist history.
// POST: the residencia and all its week entries are gone
func ExecuteDeleteResidencia(ctx context.Context, id string, deps SaveResidenciaDeps) error {
	if err := deps.ResidenciaStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("catalog_event", "event", "residencia_deleted", "residencia_id", id)
	return nil
}
