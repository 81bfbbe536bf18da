package week

// prepOffsets is the lead-time rule mapping a delivery weekday to the prep
// day offset from the week's Monday. Prepared goods are made 1-3 business
// days ahead; Monday deliveries borrow the previous week's Friday, which is
// why Lunes is negative and crosses the week boundary.
var prepOffsets = map[string]int{
	Lunes:     -3,
	Martes:    0,
	Miercoles: 0,
	Jueves:    1,
	Viernes:   2,
}

// SuggestedDeliverDate returns the delivery date for a residencia within the
// week starting at weekStart: the Monday advanced to its fixed delivery day.
// PRE: weekStart is an ISO Monday, day is a business weekday
// POST: Returns an ISO date inside the same Monday-start week
func SuggestedDeliverDate(weekStart, day string) (string, error) {
	n, err := Ordinal(day)
	if err != nil {
		return "", err
	}
	return AddDays(weekStart, n)
}

// SuggestedPrepDate returns the default preparation date for a delivery day.
// The offset table is a domain contract, not an approximation: Lunes -> the
// preceding Friday, Martes/Miércoles -> Monday, Jueves -> Tuesday,
// Viernes -> Wednesday.
// PRE: weekStart is an ISO Monday, day is a business weekday
// POST: Returns the ISO prep date (may precede weekStart for Lunes)
func SuggestedPrepDate(weekStart, day string) (string, error) {
	offset, ok := prepOffsets[day]
	if !ok {
		return "", ErrNotBusinessDay
	}
	return AddDays(weekStart, offset)
}
