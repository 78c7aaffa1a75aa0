package flights

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/avolkov/flightbooking/internal/repository"
)

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	ListSeats(ctx context.Context, flightID int64) ([]domain.Seat, error)
}

type Cache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	tx      repository.Transactor
	flights repository.FlightRepository
	seats   repository.SeatRepository
	cache   Cache
}

func NewFlightService(tx repository.Transactor, flights repository.FlightRepository, seats repository.SeatRepository, cache Cache) *FlightService {
	return &FlightService{tx: tx, flights: flights, seats: seats, cache: cache}
}

type CreateFlightInput struct {
	AirlineID       int64
	FlightNumber    string
	Source          string
	Destination     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	TotalSeats      int
	BasePrice       float64
}

// Create inserts the flight and initializes its seat ledger synchronously in
// the same transaction, replacing the original's row-creation signal.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if input.TotalSeats <= 0 {
		return nil, fmt.Errorf("total_seats must be positive: %w", domain.ErrInvalidRequest)
	}
	if input.FlightNumber == "" || input.Source == "" || input.Destination == "" {
		return nil, fmt.Errorf("flight_number, source and destination required: %w", domain.ErrInvalidRequest)
	}

	flight := &domain.Flight{
		AirlineID:       input.AirlineID,
		FlightNumber:    input.FlightNumber,
		Source:          input.Source,
		Destination:     input.Destination,
		DepartureTime:   input.DepartureTime,
		ArrivalTime:     input.ArrivalTime,
		DurationMinutes: input.DurationMinutes,
		TotalSeats:      input.TotalSeats,
		AvailableSeats:  input.TotalSeats,
		BasePrice:       input.BasePrice,
	}

	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.flights.Create(txCtx, flight); err != nil {
			return err
		}
		return s.initializeSeats(txCtx, flight)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			log.Printf("invalidate flights cache: %v", err)
		}
	}
	return flight, nil
}

// initializeSeats creates the flight's seat rows in row-major order. It is
// idempotent: a flight that already has seats is left untouched.
func (s *FlightService) initializeSeats(ctx context.Context, flight *domain.Flight) error {
	existing, err := s.seats.CountByFlight(ctx, flight.ID)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return s.seats.BulkCreate(ctx, flight.ID, GenerateSeatNumbers(flight.TotalSeats))
}

// GenerateSeatNumbers emits seat labels row by row, six columns A through F
// per row, until total labels have been produced.
func GenerateSeatNumbers(total int) []string {
	const columns = "ABCDEF"
	numbers := make([]string, 0, total)
	for row := 1; len(numbers) < total; row++ {
		for i := 0; i < len(columns) && len(numbers) < total; i++ {
			numbers = append(numbers, strconv.Itoa(row)+string(columns[i]))
		}
	}
	return numbers
}

func (s *FlightService) List(ctx context.Context, filter repository.FlightFilter) ([]domain.Flight, error) {
	key := cacheKey(filter)
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, key, flights); err != nil {
			log.Printf("set flights cache: %v", err)
		}
	}
	return flights, nil
}

func cacheKey(filter repository.FlightFilter) string {
	date := ""
	if filter.Date != nil {
		date = filter.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("%s|%s|%s|%s", filter.Source, filter.Destination, date, filter.Sort)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) ListSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	if _, err := s.flights.GetByID(ctx, flightID); err != nil {
		return nil, err
	}
	return s.seats.ListByFlight(ctx, flightID)
}

var _ FlightUseCase = (*FlightService)(nil)
