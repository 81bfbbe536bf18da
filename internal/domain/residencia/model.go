package residencia

import (
	"errors"
	"strings"

	"resiplan/internal/domain/week"
)

// Domain errors
var (
	ErrEmptyName         = errors.New("residencia name cannot be empty")
	ErrInvalidDeliveryDay = errors.New("delivery day must be a business weekday (Lunes..Viernes)")
	ErrInvalidPrepDay    = errors.New("prep days must be business weekdays (Lunes..Viernes)")
	ErrInvalidOffset     = errors.New("biweekly offset must be 0 or 1")
	ErrNegativePatients  = errors.New("patient count cannot be negative")
	ErrInvalidFloors     = errors.New("floor count must be at least 1")
)

// Workload floors for the two numeric metrics.
const (
	MinPatients = 0
	MinFloors   = 1
)

// Residencia is a care home with a fixed weekly delivery day.
// Deliveries happen on FixedDeliveryDay every week; Biweekly and
// BiweeklyOffset are reserved for alternating-week deliveries and are not
// consumed by any derivation yet.
type Residencia struct {
	ID               string
	Name             string
	FixedDeliveryDay string   // Lunes..Viernes, never a weekend
	Biweekly         bool     // reserved
	BiweeklyOffset   int      // reserved, 0 or 1
	PrepOnDays       []string // explicit extra prep days, may be empty
	Patients         int      // workload metric, used for sort ordering only
	Floors           int      // workload metric, used for sort ordering only
}

// Validate checks if the Residencia has valid data.
// PRE: Residencia struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Residencia) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if !week.Valid(r.FixedDeliveryDay) {
		return ErrInvalidDeliveryDay
	}
	if r.BiweeklyOffset != 0 && r.BiweeklyOffset != 1 {
		return ErrInvalidOffset
	}
	for _, d := range r.PrepOnDays {
		if !week.Valid(d) {
			return ErrInvalidPrepDay
		}
	}
	if r.Patients < MinPatients {
		return ErrNegativePatients
	}
	if r.Floors < MinFloors {
		return ErrInvalidFloors
	}
	return nil
}

// PrepOn returns true if the residencia is explicitly flagged for
// preparation on the given weekday, independent of any derived prep date.
// INVARIANT: Residencia fields are not mutated
func (r *Residencia) PrepOn(day string) bool {
	for _, d := range r.PrepOnDays {
		if d == day {
			return true
		}
	}
	return false
}

// ClampWorkload clamps the two numeric workload fields to their floors.
// Invalid operator input is corrected locally, never sent upstream.
// POST: patients >= 0, floors >= 1
func ClampWorkload(patients, floors int) (int, int) {
	if patients < MinPatients {
		patients = MinPatients
	}
	if floors < MinFloors {
		floors = MinFloors
	}
	return patients, floors
}
