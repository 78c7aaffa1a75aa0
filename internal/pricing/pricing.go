package pricing

import (
	"math"
	"time"
)

// Occupancy is the flight's stored seat counters at the instant a price is
// computed, before the current transaction's own seat mutations.
type Occupancy struct {
	TotalSeats     int
	AvailableSeats int
}

// Quote computes the per-ticket price for a flight from its base price,
// occupancy and departure time. asOf enables the time-based tier; pass the
// zero time to price on occupancy alone. Pure function, rounds to 2 decimals.
func Quote(basePrice float64, occ Occupancy, departure, asOf time.Time) float64 {
	price := basePrice

	bookingRatio := 0.0
	if occ.TotalSeats > 0 {
		bookingRatio = float64(occ.TotalSeats-occ.AvailableSeats) / float64(occ.TotalSeats)
	}

	// Seat-based tier, first match wins. Ratio exactly 0.8 takes the top tier.
	switch {
	case bookingRatio >= 0.8:
		price *= 1.5
	case bookingRatio >= 0.5:
		price *= 1.2
	case occ.TotalSeats > 0 && float64(occ.AvailableSeats)/float64(occ.TotalSeats) > 0.7:
		price *= 0.9
	}

	// Time-based tier applied independently.
	if !asOf.IsZero() {
		days := daysBefore(departure, asOf)
		if days > 30 {
			price *= 0.85
		} else if days <= 3 {
			price *= 1.25
		}
	}

	return Round(price)
}

// Round rounds a price to 2 decimal places.
func Round(price float64) float64 {
	return math.Round(price*100) / 100
}

// daysBefore is the whole-day difference between the departure date and the
// asOf date, ignoring time of day.
func daysBefore(departure, asOf time.Time) int {
	dep := truncateToDate(departure)
	ref := truncateToDate(asOf)
	return int(dep.Sub(ref).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
