package payment

import (
	"context"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type PaymentUseCase interface {
	Record(ctx context.Context, bookingID int64, method string) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
}

type PaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
}

func NewPaymentService(payments repository.PaymentRepository, bookings repository.BookingRepository) *PaymentService {
	return &PaymentService{payments: payments, bookings: bookings}
}

// Record settles a booking with a simulated gateway: the amount is always
// the booking's total price and the payment always succeeds.
func (s *PaymentService) Record(ctx context.Context, bookingID int64, method string) (*domain.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = "credit_card"
	}

	payment := &domain.Payment{
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		Method:        method,
		Status:        domain.PaymentStatusSuccess,
		TransactionID: "TXN-" + uuid.NewString(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

var _ PaymentUseCase = (*PaymentService)(nil)
