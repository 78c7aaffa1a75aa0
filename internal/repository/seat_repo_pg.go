package repository

import (
	"context"
	"fmt"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	BulkCreate(ctx context.Context, flightID int64, seatNumbers []string) error
	CountByFlight(ctx context.Context, flightID int64) (int, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error)
	ListNumbersByBooking(ctx context.Context, bookingID int64) ([]string, error)
	LockByNumbers(ctx context.Context, flightID int64, seatNumbers []string) ([]domain.Seat, error)
	LockFree(ctx context.Context, flightID int64, limit int) ([]domain.Seat, error)
	LockByBooking(ctx context.Context, bookingID int64) ([]domain.Seat, error)
	MarkHeld(ctx context.Context, seatIDs []int64, bookingID int64) error
	Release(ctx context.Context, bookingID int64) (int, error)
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) *PGSeatRepository {
	return &PGSeatRepository{db: db}
}

const seatColumns = `id, flight_id, seat_number, is_booked, booking_id`

func (r *PGSeatRepository) BulkCreate(ctx context.Context, flightID int64, seatNumbers []string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO seats (flight_id, seat_number)
		SELECT $1, unnest($2::text[])`, flightID, seatNumbers)
	return err
}

func (r *PGSeatRepository) CountByFlight(ctx context.Context, flightID int64) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM seats WHERE flight_id=$1`, flightID).Scan(&n)
	return n, err
}

// ListByFlight returns seats ordered by label, matching the original
// lexicographic listing order.
func (r *PGSeatRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats WHERE flight_id=$1 ORDER BY seat_number`, flightID)
}

func (r *PGSeatRepository) ListNumbersByBooking(ctx context.Context, bookingID int64) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT seat_number FROM seats WHERE booking_id=$1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	numbers := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}

// LockByNumbers acquires row locks on exactly the requested seats. Labels
// that do not exist for the flight are simply absent from the result; the
// caller compares counts.
func (r *PGSeatRepository) LockByNumbers(ctx context.Context, flightID int64, seatNumbers []string) ([]domain.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats
		WHERE flight_id=$1 AND seat_number = ANY($2::text[])
		ORDER BY id FOR UPDATE`, flightID, seatNumbers)
}

// LockFree picks up to limit free seats in ledger (creation) order. SKIP
// LOCKED lets concurrent auto-selections take disjoint seats instead of
// queueing on the same rows.
func (r *PGSeatRepository) LockFree(ctx context.Context, flightID int64, limit int) ([]domain.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats
		WHERE flight_id=$1 AND is_booked = false
		ORDER BY id LIMIT $2 FOR UPDATE SKIP LOCKED`, flightID, limit)
}

func (r *PGSeatRepository) LockByBooking(ctx context.Context, bookingID int64) ([]domain.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats
		WHERE booking_id=$1 ORDER BY id FOR UPDATE`, bookingID)
}

func (r *PGSeatRepository) MarkHeld(ctx context.Context, seatIDs []int64, bookingID int64) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE seats SET is_booked = true, booking_id = $2
		WHERE id = ANY($1::bigint[])`, seatIDs, bookingID)
	if err != nil {
		return err
	}
	if int(cmd.RowsAffected()) != len(seatIDs) {
		return fmt.Errorf("marked %d of %d seats held", cmd.RowsAffected(), len(seatIDs))
	}
	return nil
}

// Release frees every seat held by the booking and clears the back
// reference, returning the number of seats freed.
func (r *PGSeatRepository) Release(ctx context.Context, bookingID int64) (int, error) {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE seats SET is_booked = false, booking_id = NULL
		WHERE booking_id=$1`, bookingID)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *PGSeatRepository) list(ctx context.Context, query string, args ...any) ([]domain.Seat, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.IsBooked, &s.BookingID); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

var _ SeatRepository = (*PGSeatRepository)(nil)
