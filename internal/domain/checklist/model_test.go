package checklist_test

import (
	"encoding/json"
	"testing"

	"resiplan/internal/domain/checklist"
	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// TestEntryValidation tests validation of Entry keys.
func TestEntryValidation(t *testing.T) {
	tests := []struct {
		name    string
		entry   checklist.Entry
		wantErr bool
	}{
		{"valid", checklist.Entry{ResidenciaID: "r1", WeekStart: "2024-06-03"}, false},
		{"empty residencia", checklist.Entry{WeekStart: "2024-06-03"}, true},
		{"not a Monday", checklist.Entry{ResidenciaID: "r1", WeekStart: "2024-06-04"}, true},
		{"garbage date", checklist.Entry{ResidenciaID: "r1", WeekStart: "junio"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Entry.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestIsComplete tests that completion requires all three flags.
func TestIsComplete(t *testing.T) {
	tests := []struct {
		name                          string
		changesDone, reviewed, packed bool
		want                          bool
	}{
		{"all done", true, true, true, true},
		{"none done", false, false, false, false},
		{"changes only", true, false, false, false},
		{"missing packed", true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := checklist.Entry{ChangesDone: tt.changesDone, Reviewed: tt.reviewed, Packed: tt.packed}
			if got := e.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestNewForWeek tests derived defaults for a fresh entry.
func TestNewForWeek(t *testing.T) {
	r := residencia.Residencia{ID: "A", Name: "Casa Sol", FixedDeliveryDay: week.Viernes, Patients: 10, Floors: 2}
	e, err := checklist.NewForWeek(r, "2024-06-03")
	if err != nil {
		t.Fatalf("NewForWeek error = %v", err)
	}
	if e.ID != "" {
		t.Errorf("new entry has ID %q, want empty", e.ID)
	}
	if e.ResidenciaID != "A" || e.WeekStart != "2024-06-03" {
		t.Errorf("keys = (%q, %q), want (A, 2024-06-03)", e.ResidenciaID, e.WeekStart)
	}
	if e.ChangesDone || e.Reviewed || e.Packed {
		t.Error("new entry has completion flags set")
	}
	if e.PrepDate == nil || *e.PrepDate != "2024-06-05" {
		t.Errorf("PrepDate = %v, want 2024-06-05", e.PrepDate)
	}
	if e.DeliverDate == nil || *e.DeliverDate != "2024-06-07" {
		t.Errorf("DeliverDate = %v, want 2024-06-07", e.DeliverDate)
	}
	if e.Notes != nil {
		t.Errorf("Notes = %v, want nil", e.Notes)
	}
}

// TestApplyPreservesUntouchedFields tests that a partial patch never drops
// fields it does not mention.
func TestApplyPreservesUntouchedFields(t *testing.T) {
	e := checklist.Entry{
		ID:           "e1",
		ResidenciaID: "r1",
		WeekStart:    "2024-06-03",
		ChangesDone:  true,
		PrepDate:     strPtr("2024-06-05"),
		Notes:        strPtr("ojo con la 3a planta"),
	}

	merged := e.Apply(checklist.Patch{Notes: &checklist.Nullable{Valid: true, Value: "todo listo"}})

	if !merged.ChangesDone {
		t.Error("ChangesDone dropped by a notes-only patch")
	}
	if merged.PrepDate == nil || *merged.PrepDate != "2024-06-05" {
		t.Error("PrepDate dropped by a notes-only patch")
	}
	if merged.Notes == nil || *merged.Notes != "todo listo" {
		t.Errorf("Notes = %v, want todo listo", merged.Notes)
	}
	if merged.ID != "e1" || merged.ResidenciaID != "r1" || merged.WeekStart != "2024-06-03" {
		t.Error("identity fields not preserved")
	}

	// The receiver must not be mutated.
	if e.Notes == nil || *e.Notes != "ojo con la 3a planta" {
		t.Error("Apply mutated its receiver")
	}
}

// TestApplyClearsWithNull tests that an explicit null clears a date.
func TestApplyClearsWithNull(t *testing.T) {
	e := checklist.Entry{ID: "e1", ResidenciaID: "r1", WeekStart: "2024-06-03", DeliverDate: strPtr("2024-06-07")}
	merged := e.Apply(checklist.Patch{DeliverDate: &checklist.Nullable{}})
	if merged.DeliverDate != nil {
		t.Errorf("DeliverDate = %v, want nil after explicit null", merged.DeliverDate)
	}
}

// TestApplyFlags tests flag toggling both ways.
func TestApplyFlags(t *testing.T) {
	e := checklist.Entry{ChangesDone: true}
	merged := e.Apply(checklist.Patch{ChangesDone: boolPtr(false), Packed: boolPtr(true)})
	if merged.ChangesDone {
		t.Error("ChangesDone not cleared")
	}
	if !merged.Packed {
		t.Error("Packed not set")
	}
	if merged.Reviewed {
		t.Error("Reviewed changed by unrelated patch")
	}
}

// TestPatchDecoding tests the three JSON states: absent, null, and value.
func TestPatchDecoding(t *testing.T) {
	var p checklist.Patch
	if err := json.Unmarshal([]byte(`{"packed":true,"prepDate":null,"notes":"hola"}`), &p); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}

	if p.Packed == nil || !*p.Packed {
		t.Error("packed not decoded as true")
	}
	if p.ChangesDone != nil {
		t.Error("absent changesDone decoded as present")
	}
	if p.PrepDate == nil || p.PrepDate.Valid {
		t.Error("explicit null prepDate should be present and invalid")
	}
	if p.Notes == nil || !p.Notes.Valid || p.Notes.Value != "hola" {
		t.Errorf("notes = %+v, want valid hola", p.Notes)
	}
	if p.DeliverDate != nil {
		t.Error("absent deliverDate decoded as present")
	}
}
