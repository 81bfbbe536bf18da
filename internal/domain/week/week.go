package week

import (
	"errors"
	"time"
)

// Business weekday labels. Spanish labels are the data-model keys:
// residencias store their delivery day and prep days with these values.
const (
	Lunes     = "Lunes"
	Martes    = "Martes"
	Miercoles = "Miércoles"
	Jueves    = "Jueves"
	Viernes   = "Viernes"
)

// Order is the fixed business-week order, Monday first.
var Order = []string{Lunes, Martes, Miercoles, Jueves, Viernes}

// ISO is the date layout used everywhere in the domain (yyyy-mm-dd).
const ISO = "2006-01-02"

// Domain errors
var (
	ErrNotBusinessDay = errors.New("day must be a business weekday (Lunes..Viernes)")
	ErrInvalidDate    = errors.New("date must be in yyyy-mm-dd format")
)

// ordinals maps each business day to its position within the week, Monday = 0.
var ordinals = map[string]int{
	Lunes:     0,
	Martes:    1,
	Miercoles: 2,
	Jueves:    3,
	Viernes:   4,
}

// labels maps Go weekdays to the Spanish business-day labels.
// Saturday and Sunday are deliberately absent.
var labels = map[time.Weekday]string{
	time.Monday:    Lunes,
	time.Tuesday:   Martes,
	time.Wednesday: Miercoles,
	time.Thursday:  Jueves,
	time.Friday:    Viernes,
}

// Valid returns true if day is one of the five business weekday labels.
func Valid(day string) bool {
	_, ok := ordinals[day]
	return ok
}

// Ordinal returns the position of a business weekday within the week (Lunes=0 .. Viernes=4).
// PRE: day is a business weekday label
// POST: Returns 0..4, or ErrNotBusinessDay for anything else
func Ordinal(day string) (int, error) {
	n, ok := ordinals[day]
	if !ok {
		return 0, ErrNotBusinessDay
	}
	return n, nil
}

// Label returns the Spanish weekday label for a date, or "" for Saturday/Sunday.
// INVARIANT: locale-independent — derived from the date's day-of-week index only
func Label(d time.Time) string {
	return labels[d.Weekday()]
}

// ISODate formats a date as yyyy-mm-dd, discarding the time of day.
func ISODate(d time.Time) string {
	return d.Format(ISO)
}

// WeekStart returns the Monday of the week containing d, as an ISO date.
// Sundays map to the Monday six days earlier: week boundaries always look
// backward to the most recent Monday, never forward.
func WeekStart(d time.Time) string {
	diff := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		diff = -6
	}
	return ISODate(d.AddDate(0, 0, diff))
}

// Today returns the local calendar date of now, independent of time of day.
func Today(now time.Time) string {
	return ISODate(now)
}

// AddDays adds n calendar days to an ISO date. n may be negative; month and
// year rollover are handled by the calendar.
// PRE: iso is a yyyy-mm-dd date
// POST: Returns the shifted ISO date, or ErrInvalidDate if iso does not parse
func AddDays(iso string, n int) (string, error) {
	d, err := time.Parse(ISO, iso)
	if err != nil {
		return "", ErrInvalidDate
	}
	return ISODate(d.AddDate(0, 0, n)), nil
}
