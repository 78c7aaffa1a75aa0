package domain

// Seat belongs to exactly one flight. BookingID is a weak back reference
// to the booking currently holding the seat; nil while the seat is free.
type Seat struct {
	ID         int64
	FlightID   int64
	SeatNumber string
	IsBooked   bool
	BookingID  *int64
}
