package email

import (
	"context"
	"fmt"

	"github.com/avolkov/flightbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email for user %d: %s, pnr %s, flight %d, seats %v\n",
		event.UserID, event.Type, event.PNR, event.FlightID, event.SeatNumbers)
	return nil
}
