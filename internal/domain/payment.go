package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Payment struct {
	ID            int64
	BookingID     int64
	Amount        float64
	Method        string
	Status        PaymentStatus
	TransactionID string
	PaymentTime   time.Time
}
