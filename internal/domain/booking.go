package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID             int64
	UserID         int64
	FlightID       int64
	SeatsBooked    int
	PricePerTicket float64
	TotalPrice     float64
	PNR            string
	Status         BookingStatus
	BookedAt       time.Time
	CancelledAt    *time.Time
	// Seat labels held by this booking, populated on read paths.
	SeatNumbers []string
}
