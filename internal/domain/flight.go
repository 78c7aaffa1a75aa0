package domain

import "time"

type Flight struct {
	ID              int64
	AirlineID       int64
	FlightNumber    string
	Source          string
	Destination     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	TotalSeats      int
	AvailableSeats  int
	BasePrice       float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
