package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

// ResidenciaStoreForSeed defines the store interface needed by SeedResidencias.
type ResidenciaStoreForSeed interface {
	List(ctx context.Context) ([]residencia.Residencia, error)
	Save(ctx context.Context, r residencia.Residencia) error
}

// SeedResidenciasDeps holds dependencies for SeedResidencias.
type SeedResidenciasDeps struct {
	ResidenciaStore ResidenciaStoreForSeed
}

// ExecuteSeedResidencias fills an empty catalog with a small synthetic set
// for development. A non-empty catalog is left untouched.
// POST: catalog has at least one residencia
func ExecuteSeedResidencias(ctx context.Context, deps SeedResidenciasDeps) error {
	existing, err := deps.ResidenciaStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []residencia.Residencia{
		{Name: "Residencia El Pinar", FixedDeliveryDay: week.Lunes, Patients: 42, Floors: 3, PrepOnDays: []string{week.Jueves, week.Viernes}},
		{Name: "Centro Santa Clara", FixedDeliveryDay: week.Martes, Patients: 28, Floors: 2},
		{Name: "Hogar San Rafael", FixedDeliveryDay: week.Miercoles, Patients: 35, Floors: 2, PrepOnDays: []string{week.Lunes}},
		{Name: "Residencia Los Olivos", FixedDeliveryDay: week.Jueves, Patients: 19, Floors: 1},
		{Name: "Villa Esperanza", FixedDeliveryDay: week.Viernes, Patients: 51, Floors: 4, PrepOnDays: []string{week.Miercoles}},
	}
	for _, r := range seeds {
		r.ID = uuid.NewString()
		if err := deps.ResidenciaStore.Save(ctx, r); err != nil {
			return err
		}
	}

	slog.Info("catalog_event", "event", "catalog_seeded", "count", len(seeds))
	return nil
}
