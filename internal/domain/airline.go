package domain

import "time"

type Airline struct {
	ID        int64
	Name      string
	Code      string
	Country   string
	CreatedAt time.Time
}
