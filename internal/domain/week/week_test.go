package week_test

import (
	"testing"
	"time"

	"resiplan/internal/domain/week"
)

// TestOrdinal tests the fixed Monday-first ordering of business weekdays.
func TestOrdinal(t *testing.T) {
	tests := []struct {
		day  string
		want int
	}{
		{week.Lunes, 0},
		{week.Martes, 1},
		{week.Miercoles, 2},
		{week.Jueves, 3},
		{week.Viernes, 4},
	}

	seen := make(map[int]bool)
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			got, err := week.Ordinal(tt.day)
			if err != nil {
				t.Fatalf("Ordinal(%q) error = %v", tt.day, err)
			}
			if got != tt.want {
				t.Errorf("Ordinal(%q) = %d, want %d", tt.day, got, tt.want)
			}
			if seen[got] {
				t.Errorf("Ordinal(%q) = %d already assigned to another day", tt.day, got)
			}
			seen[got] = true
		})
	}
}

// TestOrdinalRejectsWeekends tests that Saturday/Sunday inputs fail.
func TestOrdinalRejectsWeekends(t *testing.T) {
	for _, day := range []string{"Sábado", "Domingo", "", "lunes", "Monday"} {
		if _, err := week.Ordinal(day); err != week.ErrNotBusinessDay {
			t.Errorf("Ordinal(%q) error = %v, want ErrNotBusinessDay", day, err)
		}
	}
}

// TestWeekStart tests that every day of a calendar week maps to the same Monday.
func TestWeekStart(t *testing.T) {
	// 2024-06-03 is a Monday.
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		if got := week.WeekStart(d); got != "2024-06-03" {
			t.Errorf("WeekStart(%s) = %q, want 2024-06-03", d.Format(week.ISO), got)
		}
	}
}

// TestWeekStartSunday tests that Sunday looks backward to the previous Monday.
func TestWeekStartSunday(t *testing.T) {
	sunday := time.Date(2024, 6, 9, 23, 30, 0, 0, time.UTC)
	if got := week.WeekStart(sunday); got != "2024-06-03" {
		t.Errorf("WeekStart(sunday) = %q, want 2024-06-03 (six days earlier, not the upcoming Monday)", got)
	}
}

// TestWeekStartIgnoresTimeOfDay tests midnight normalization.
func TestWeekStartIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 6, 5, 23, 59, 59, 0, time.UTC)
	early := time.Date(2024, 6, 5, 0, 0, 1, 0, time.UTC)
	if week.WeekStart(late) != week.WeekStart(early) {
		t.Error("WeekStart should be independent of time of day")
	}
}

// TestAddDays tests calendar-correct day arithmetic.
func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		iso  string
		n    int
		want string
	}{
		{"same day", "2024-06-03", 0, "2024-06-03"},
		{"within month", "2024-06-03", 4, "2024-06-07"},
		{"negative crossing month", "2024-06-03", -3, "2024-05-31"},
		{"month rollover", "2024-05-30", 3, "2024-06-02"},
		{"year rollover", "2024-12-30", 3, "2025-01-02"},
		{"leap day", "2024-02-28", 1, "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := week.AddDays(tt.iso, tt.n)
			if err != nil {
				t.Fatalf("AddDays(%q, %d) error = %v", tt.iso, tt.n, err)
			}
			if got != tt.want {
				t.Errorf("AddDays(%q, %d) = %q, want %q", tt.iso, tt.n, got, tt.want)
			}
		})
	}

	if _, err := week.AddDays("not-a-date", 1); err != week.ErrInvalidDate {
		t.Errorf("AddDays on garbage error = %v, want ErrInvalidDate", err)
	}
}

// TestLabel tests the locale-independent weekday label table.
func TestLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), week.Lunes},
		{time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), week.Miercoles},
		{time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), week.Viernes},
		{time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), ""}, // Saturday
		{time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), ""}, // Sunday
	}
	for _, tt := range tests {
		if got := week.Label(tt.date); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.date.Format(week.ISO), got, tt.want)
		}
	}
}
