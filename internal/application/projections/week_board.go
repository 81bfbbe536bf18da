package projections

import (
	"sort"
	"time"

	"resiplan/internal/domain/checklist"
	"resiplan/internal/domain/residencia"
	"resiplan/internal/domain/week"
)

// WeekState is the fully reconciled view of one week: the catalog plus
// exactly one checklist entry per residencia.
type WeekState struct {
	WeekStart string
	Catalog   []residencia.Residencia
	Index     map[string]checklist.Entry // keyed by residencia ID
}

// BoardRow pairs a residencia with its entry and the dates the board shows.
// PrepDate and DeliverDate are the effective dates: the operator's explicit
// override when present, otherwise the suggestion derived from the fixed
// delivery day.
type BoardRow struct {
	Residencia  residencia.Residencia
	Entry       checklist.Entry
	PrepDate    string
	DeliverDate string
}

// FilterMode selects which residencias the board shows.
type FilterMode string

const (
	ModeAll          FilterMode = "all"
	ModePrepToday    FilterMode = "prepToday"
	ModeDeliverToday FilterMode = "deliverToday"
)

// ParseMode maps a query parameter to a FilterMode, defaulting to ModeAll.
func ParseMode(s string) FilterMode {
	switch FilterMode(s) {
	case ModePrepToday, ModeDeliverToday:
		return FilterMode(s)
	default:
		return ModeAll
	}
}

// Rows resolves effective dates for every residencia in catalog order.
// PRE: state.Index holds an entry for every catalog residencia
func Rows(state WeekState) []BoardRow {
	rows := make([]BoardRow, 0, len(state.Catalog))
	for _, r := range state.Catalog {
		e := state.Index[r.ID]
		rows = append(rows, BoardRow{
			Residencia:  r,
			Entry:       e,
			PrepDate:    effectiveDate(e.PrepDate, suggestedPrep(state.WeekStart, r)),
			DeliverDate: effectiveDate(e.DeliverDate, suggestedDeliver(state.WeekStart, r)),
		})
	}
	return rows
}

// Filter keeps the rows matching the given mode on the given day.
//
// prepToday matches when the effective prep date is today, or when the
// residencia lists today's weekday among its habitual prep days.
// deliverToday matches on the entry's explicit deliver date only: a
// cleared date never falls back to the suggestion.
func Filter(rows []BoardRow, mode FilterMode, today time.Time) []BoardRow {
	if mode == ModeAll {
		return rows
	}
	todayISO := week.ISODate(today)
	todayLabel := week.Label(today)

	var out []BoardRow
	for _, row := range rows {
		switch mode {
		case ModePrepToday:
			if row.PrepDate == todayISO || row.Residencia.PrepOn(todayLabel) {
				out = append(out, row)
			}
		case ModeDeliverToday:
			if row.Entry.DeliverDate != nil && *row.Entry.DeliverDate == todayISO {
				out = append(out, row)
			}
		}
	}
	return out
}

// DayGroup is one delivery-day column of the board.
type DayGroup struct {
	Day  string
	Rows []BoardRow
}

// GroupByDeliveryDay buckets rows by their fixed delivery day in week order.
// Within a group the heaviest residencias come first: patients descending,
// then floors descending, then name ascending.
// POST: only days with at least one row appear
func GroupByDeliveryDay(rows []BoardRow) []DayGroup {
	byDay := make(map[string][]BoardRow)
	for _, row := range rows {
		day := row.Residencia.FixedDeliveryDay
		byDay[day] = append(byDay[day], row)
	}

	var groups []DayGroup
	for _, day := range week.Order {
		dayRows, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(dayRows, func(i, j int) bool {
			a, b := dayRows[i].Residencia, dayRows[j].Residencia
			if a.Patients != b.Patients {
				return a.Patients > b.Patients
			}
			if a.Floors != b.Floors {
				return a.Floors > b.Floors
			}
			return a.Name < b.Name
		})
		groups = append(groups, DayGroup{Day: day, Rows: dayRows})
	}
	return groups
}

// Summary aggregates the week for the board header.
type Summary struct {
	Prepared       int // entries with all three flags done
	DueForDelivery int // entries with a deliver date set
	Pending        int // everything not yet prepared
}

// Summarize computes the board header counters from the resolved rows.
// DueForDelivery counts entries whose deliver date is set, whatever the
// date: it is an independent axis, not exclusive with the other two.
func Summarize(rows []BoardRow) Summary {
	var s Summary
	for _, row := range rows {
		if row.Entry.IsComplete() {
			s.Prepared++
		} else {
			s.Pending++
		}
		if row.Entry.DeliverDate != nil {
			s.DueForDelivery++
		}
	}
	return s
}

// effectiveDate prefers the operator's explicit date over the suggestion.
func effectiveDate(explicit *string, suggested string) string {
	if explicit != nil && *explicit != "" {
		return *explicit
	}
	return suggested
}

func suggestedPrep(weekStart string, r residencia.Residencia) string {
	d, err := week.SuggestedPrepDate(weekStart, r.FixedDeliveryDay)
	if err != nil {
		return ""
	}
	return d
}

func suggestedDeliver(weekStart string, r residencia.Residencia) string {
	d, err := week.SuggestedDeliverDate(weekStart, r.FixedDeliveryDay)
	if err != nil {
		return ""
	}
	return d
}
