package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FlightFilter narrows and orders flight listings. Sort accepts price_asc,
// price_desc, duration_asc, duration_desc; anything else orders by departure.
// Price sorting uses the stored base price, not the dynamic price: this is a
// documented approximation kept from the original system.
type FlightFilter struct {
	Source      string
	Destination string
	Date        *time.Time
	Sort        string
}

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Flight, error)
	AdjustAvailableSeats(ctx context.Context, flightID int64, delta int) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline_id, flight_number, source, destination, departure_time, arrival_time, duration_minutes, total_seats, available_seats, base_price, created_at, updated_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return conn(ctx, r.db).QueryRow(ctx, `INSERT INTO flights (airline_id, flight_number, source, destination, departure_time, arrival_time, duration_minutes, total_seats, available_seats, base_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		flight.AirlineID, flight.FlightNumber, flight.Source, flight.Destination,
		flight.DepartureTime, flight.ArrivalTime, flight.DurationMinutes,
		flight.TotalSeats, flight.AvailableSeats, flight.BasePrice).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	var (
		where []string
		args  []any
	)
	if filter.Source != "" {
		args = append(args, filter.Source)
		where = append(where, fmt.Sprintf("LOWER(source) = LOWER($%d)", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, filter.Destination)
		where = append(where, fmt.Sprintf("LOWER(destination) = LOWER($%d)", len(args)))
	}
	if filter.Date != nil {
		day := filter.Date.Truncate(24 * time.Hour)
		args = append(args, day)
		where = append(where, fmt.Sprintf("departure_time >= $%d", len(args)))
		args = append(args, day.Add(24*time.Hour))
		where = append(where, fmt.Sprintf("departure_time < $%d", len(args)))
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderClause(filter.Sort)

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func orderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "base_price"
	case "price_desc":
		return "base_price DESC"
	case "duration_asc":
		return "duration_minutes"
	case "duration_desc":
		return "duration_minutes DESC"
	default:
		return "departure_time"
	}
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return r.get(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
}

// GetByIDForUpdate locks the flight row for the remainder of the transaction.
func (r *PGFlightRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Flight, error) {
	return r.get(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, id)
}

func (r *PGFlightRepository) get(ctx context.Context, query string, id int64) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return &f, nil
}

// AdjustAvailableSeats moves the availability counter by delta, clamped to
// [0, total_seats]. Must only be called inside the transaction that also
// mutates the seat rows the counter summarizes.
func (r *PGFlightRepository) AdjustAvailableSeats(ctx context.Context, flightID int64, delta int) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE flights
		SET available_seats = LEAST(total_seats, GREATEST(0, available_seats + $2)), updated_at = now()
		WHERE id=$1`, flightID, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("flight %d: %w", flightID, domain.ErrNotFound)
	}
	return nil
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.AirlineID, &f.FlightNumber, &f.Source, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.TotalSeats,
		&f.AvailableSeats, &f.BasePrice, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
