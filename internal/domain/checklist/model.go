package checklist

import (
	"encoding/json"
	"errors"
	"time"

	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

// Domain errors
var (
	ErrEmptyResidenciaID = errors.New("residencia ID cannot be empty")
	ErrInvalidWeekStart  = errors.New("week start must be an ISO date on a Monday")
)

// Entry is the weekly task-tracking record for one residencia.
// Exactly one entry exists per (ResidenciaID, WeekStart) pair; entries are
// created lazily with derived default dates and only ever updated in place.
type Entry struct {
	ID           string // assigned on first persistence; empty before creation
	ResidenciaID string
	WeekStart    string // yyyy-mm-dd, always a Monday

	// Independent completion flags, no ordering between them.
	ChangesDone bool // weekly medication changes applied
	Reviewed    bool // double-checked against the current listings
	Packed      bool // blistered and packed for delivery

	PrepDate    *string // overridable; once set by a human, never recomputed
	DeliverDate *string // overridable; once set by a human, never recomputed
	Notes       *string
	UpdatedAt   time.Time // owned by the persistence layer
}

// Validate checks if the Entry has valid key data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ResidenciaID == "" {
		return ErrEmptyResidenciaID
	}
	d, err := time.Parse(week.ISO, e.WeekStart)
	if err != nil || d.Weekday() != time.Monday {
		return ErrInvalidWeekStart
	}
	return nil
}

// IsComplete returns true iff all three completion flags are set.
// INVARIANT: Entry fields are not mutated
func (e Entry) IsComplete() bool {
	return e.ChangesDone && e.Reviewed && e.Packed
}

// NewForWeek synthesizes the default entry for a residencia and week:
// all flags false, prep/deliver dates derived from the fixed delivery day,
// no notes, no ID.
// PRE: weekStart is an ISO Monday, r has a valid delivery day
// POST: Returns an entry ready for first persistence
func NewForWeek(r residencia.Residencia, weekStart string) (Entry, error) {
	prep, err := week.SuggestedPrepDate(weekStart, r.FixedDeliveryDay)
	if err != nil {
		return Entry{}, err
	}
	deliver, err := week.SuggestedDeliverDate(weekStart, r.FixedDeliveryDay)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ResidenciaID: r.ID,
		WeekStart:    weekStart,
		PrepDate:     &prep,
		DeliverDate:  &deliver,
	}, nil
}

// Nullable is an explicitly-present optional string for Patch fields that
// can be set to null (dates, notes). Decoding distinguishes three states:
// absent from the JSON (nil *Nullable), present as null (Valid=false), and
// present with a value (Valid=true).
type Nullable struct {
	Valid bool
	Value string
}

// UnmarshalJSON implements tri-state decoding for Nullable.
func (n *Nullable) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Nullable{}
		return nil
	}
	n.Valid = true
	return json.Unmarshal(b, &n.Value)
}

// ptr converts a Nullable to the domain's *string representation.
func (n Nullable) ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// Patch is a partial update to one entry. Nil pointer fields are untouched;
// a non-nil Nullable with Valid=false clears the field.
type Patch struct {
	ChangesDone *bool     `json:"changesDone"`
	Reviewed    *bool     `json:"reviewed"`
	Packed      *bool     `json:"packed"`
	PrepDate    *Nullable `json:"prepDate"`
	DeliverDate *Nullable `json:"deliverDate"`
	Notes       *Nullable `json:"notes"`
}

// Apply shallow-merges a patch over the entry and returns the merged row.
// ID, ResidenciaID and WeekStart are always preserved; fields absent from
// the patch keep their current value.
// INVARIANT: The receiver is not mutated
func (e Entry) Apply(p Patch) Entry {
	if p.ChangesDone != nil {
		e.ChangesDone = *p.ChangesDone
	}
	if p.Reviewed != nil {
		e.Reviewed = *p.Reviewed
	}
	if p.Packed != nil {
		e.Packed = *p.Packed
	}
	if p.PrepDate != nil {
		e.PrepDate = p.PrepDate.ptr()
	}
	if p.DeliverDate != nil {
		e.DeliverDate = p.DeliverDate.ptr()
	}
	if p.Notes != nil {
		e.Notes = p.Notes.ptr()
	}
	return e
}
