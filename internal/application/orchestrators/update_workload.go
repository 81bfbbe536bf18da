package orchestrators

import (
	"context"
	"log/slog"

	"resiplan/internal/domain/residencia"
)

// ResidenciaStoreForWorkload defines the store interface needed by UpdateWorkload.
type ResidenciaStoreForWorkload interface {
	GetByID(ctx context.Context, id string) (residencia.Residencia, error)
	UpdateWorkload(ctx context.Context, id string, patients, floors int) error
}

// UpdateWorkloadInput carries a workload adjustment for one residencia.
type UpdateWorkloadInput struct {
	ResidenciaID string
	Patients     int
	Floors       int
}

// UpdateWorkloadDeps holds dependencies for UpdateWorkload.
type UpdateWorkloadDeps struct {
	ResidenciaStore ResidenciaStoreForWorkload
}

// ExecuteUpdateWorkload clamps and persists the patient and floor counts.
// POST: patients >= 0 and floors >= 1 in the stored row
func ExecuteUpdateWorkload(ctx context.Context, input UpdateWorkloadInput, deps UpdateWorkloadDeps) (residencia.Residencia, error) {
	r, err := deps.ResidenciaStore.GetByID(ctx, input.ResidenciaID)
	if err != nil {
		return residencia.Residencia{}, err
	}

	patients, floors := residencia.ClampWorkload(input.Patients, input.Floors)
	if err := deps.ResidenciaStore.UpdateWorkload(ctx, r.ID, patients, floors); err != nil {
		return residencia.Residencia{}, err
	}

	r.Patients = patients
	r.Floors = floors
	slog.Info("catalog_event", "event", "workload_updated",
		"residencia_id", r.ID, "patients", patients, "floors", floors)
	return r, nil
}
