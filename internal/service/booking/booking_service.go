package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/avolkov/flightbooking/internal/clock"
	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/kafka"
	"github.com/avolkov/flightbooking/internal/pricing"
	"github.com/avolkov/flightbooking/internal/repository"
)

type BookingUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error)
	ReserveAny(ctx context.Context, flightID, userID int64, count int) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error)
	GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// maxPNRAttempts bounds regeneration on PNR uniqueness collisions before the
// reservation is reported as a conflict.
const maxPNRAttempts = 5

type BookingService struct {
	tx           repository.Transactor
	bookings     repository.BookingRepository
	flights      repository.FlightRepository
	seats        repository.SeatRepository
	users        repository.UserRepository
	cache        Cache
	producer     Producer
	bookingTopic string
	clock        clock.Clock
}

type ReserveInput struct {
	FlightID    int64
	UserID      int64
	SeatNumbers []string
}

type BookingServiceOption func(*BookingService)

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func NewBookingService(
	tx repository.Transactor,
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	seats repository.SeatRepository,
	users repository.UserRepository,
	clk clock.Clock,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		tx:       tx,
		bookings: bookings,
		flights:  flights,
		seats:    seats,
		users:    users,
		clock:    clk,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Reserve books the requested seat labels on a flight for a user. The whole
// reservation runs in one transaction with row locks on exactly the targeted
// seats, so reservations for disjoint seat sets on the same flight do not
// block each other. A waiter on a contended seat blocks until the holder
// finishes and then fails with a conflict.
func (s *BookingService) Reserve(ctx context.Context, input ReserveInput) (*domain.Booking, error) {
	if len(input.SeatNumbers) == 0 {
		return nil, fmt.Errorf("seat_numbers required: %w", domain.ErrInvalidRequest)
	}

	booking, err := s.reserve(ctx, input.FlightID, input.UserID, func(txCtx context.Context, flight *domain.Flight) ([]domain.Seat, error) {
		seats, err := s.seats.LockByNumbers(txCtx, input.FlightID, input.SeatNumbers)
		if err != nil {
			return nil, err
		}
		if len(seats) != len(input.SeatNumbers) {
			return nil, fmt.Errorf("some seats not found for this flight: %w", domain.ErrInvalidRequest)
		}
		for _, seat := range seats {
			if seat.IsBooked {
				return nil, fmt.Errorf("seat %s already booked: %w", seat.SeatNumber, domain.ErrConflict)
			}
		}
		return seats, nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ReserveAny books count seats auto-selected in ledger order. Locked rows of
// concurrent auto-selections are skipped, so two callers pick disjoint seats.
func (s *BookingService) ReserveAny(ctx context.Context, flightID, userID int64, count int) (*domain.Booking, error) {
	if count <= 0 {
		return nil, fmt.Errorf("seats_booked must be positive: %w", domain.ErrInvalidRequest)
	}

	return s.reserve(ctx, flightID, userID, func(txCtx context.Context, flight *domain.Flight) ([]domain.Seat, error) {
		seats, err := s.seats.LockFree(txCtx, flightID, count)
		if err != nil {
			return nil, err
		}
		if len(seats) != count {
			return nil, fmt.Errorf("not enough available seats: %w", domain.ErrInvalidRequest)
		}
		return seats, nil
	})
}

// reserve is the shared transactional core behind Reserve and ReserveAny.
// selectSeats must return the locked seat rows to hold.
func (s *BookingService) reserve(ctx context.Context, flightID, userID int64, selectSeats func(context.Context, *domain.Flight) ([]domain.Seat, error)) (*domain.Booking, error) {
	var booking *domain.Booking

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		flight, err := s.flights.GetByID(txCtx, flightID)
		if err != nil {
			return err
		}
		if _, err := s.users.GetByID(txCtx, userID); err != nil {
			return err
		}

		seats, err := selectSeats(txCtx, flight)
		if err != nil {
			return err
		}

		count := len(seats)
		if count > flight.AvailableSeats {
			return fmt.Errorf("not enough seats available: %w", domain.ErrInvalidRequest)
		}

		// Price is locked in from the flight's stored occupancy, before this
		// transaction's own seat mutations.
		perTicket := pricing.Quote(flight.BasePrice, pricing.Occupancy{
			TotalSeats:     flight.TotalSeats,
			AvailableSeats: flight.AvailableSeats,
		}, flight.DepartureTime, s.clock.Now())

		booking = &domain.Booking{
			UserID:         userID,
			FlightID:       flightID,
			SeatsBooked:    count,
			PricePerTicket: perTicket,
			TotalPrice:     pricing.Round(perTicket * float64(count)),
			Status:         domain.BookingStatusConfirmed,
		}
		if err := s.createWithPNR(txCtx, booking); err != nil {
			return err
		}

		seatIDs := make([]int64, 0, count)
		seatNumbers := make([]string, 0, count)
		for _, seat := range seats {
			seatIDs = append(seatIDs, seat.ID)
			seatNumbers = append(seatNumbers, seat.SeatNumber)
		}
		if err := s.seats.MarkHeld(txCtx, seatIDs, booking.ID); err != nil {
			return err
		}
		booking.SeatNumbers = seatNumbers

		return s.flights.AdjustAvailableSeats(txCtx, flightID, -count)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, "booking_created", booking)
	return booking, nil
}

// createWithPNR inserts the booking, regenerating the PNR on uniqueness
// collisions up to maxPNRAttempts.
func (s *BookingService) createWithPNR(ctx context.Context, booking *domain.Booking) error {
	for attempt := 0; attempt < maxPNRAttempts; attempt++ {
		booking.PNR = generatePNR()
		err := s.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicatePNR) {
			return err
		}
	}
	return fmt.Errorf("pnr generation exhausted after %d attempts: %w", maxPNRAttempts, domain.ErrConflict)
}

// Cancel reverses a booking: frees its seats, restores flight availability
// and marks the booking cancelled. Cancelling twice is a conflict, not a
// no-op, and the second call changes nothing.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var cancelled *domain.Booking

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.bookings.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			return err
		}
		if current.Status == domain.BookingStatusCancelled {
			return fmt.Errorf("booking already cancelled: %w", domain.ErrConflict)
		}

		seats, err := s.seats.LockByBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		freed, err := s.seats.Release(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := s.flights.AdjustAvailableSeats(txCtx, current.FlightID, freed); err != nil {
			return err
		}

		cancelled, err = s.bookings.MarkCancelled(txCtx, bookingID, s.clock.Now())
		if err != nil {
			return err
		}
		for _, seat := range seats {
			cancelled.SeatNumbers = append(cancelled.SeatNumbers, seat.SeatNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, "booking_cancelled", cancelled)
	return cancelled, nil
}

func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	numbers, err := s.seats.ListNumbersByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.SeatNumbers = numbers
	return booking, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) afterCommit(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.Printf("publish %s event for booking %s: %v", eventType, booking.PNR, err)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		PNR:         booking.PNR,
		FlightID:    booking.FlightID,
		UserID:      booking.UserID,
		SeatNumbers: booking.SeatNumbers,
		TotalPrice:  booking.TotalPrice,
		Status:      string(booking.Status),
	}
	return s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event)
}

var _ BookingUseCase = (*BookingService)(nil)
