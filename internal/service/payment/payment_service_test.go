package payment

import (
	"context"
	"testing"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id int64, at time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func TestPaymentService_Record_AmountFromBooking(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockBookings := &MockBookingRepository{}
	service := NewPaymentService(mockPayments, mockBookings)

	ctx := context.Background()

	mockBookings.On("GetByID", ctx, int64(77)).Return(&domain.Booking{ID: 77, TotalPrice: 180.00}, nil).Once()
	mockPayments.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Payment).ID = 5
	}).Return(nil).Once()

	result, err := service.Record(ctx, 77, "upi")

	assert.NoError(t, err)
	assert.Equal(t, 180.00, result.Amount)
	assert.Equal(t, "upi", result.Method)
	assert.Equal(t, domain.PaymentStatusSuccess, result.Status)
	assert.NotEmpty(t, result.TransactionID)
	mockPayments.AssertExpectations(t)
}

func TestPaymentService_Record_DefaultMethod(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockBookings := &MockBookingRepository{}
	service := NewPaymentService(mockPayments, mockBookings)

	ctx := context.Background()

	mockBookings.On("GetByID", ctx, int64(77)).Return(&domain.Booking{ID: 77, TotalPrice: 90.00}, nil).Once()
	mockPayments.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()

	result, err := service.Record(ctx, 77, "")

	assert.NoError(t, err)
	assert.Equal(t, "credit_card", result.Method)
}

func TestPaymentService_Record_BookingNotFound(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockBookings := &MockBookingRepository{}
	service := NewPaymentService(mockPayments, mockBookings)

	ctx := context.Background()

	mockBookings.On("GetByID", ctx, int64(9)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.Record(ctx, 9, "upi")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockPayments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
