package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicatePNR reports a unique-constraint collision on the PNR column.
// The booking service regenerates and retries on it.
var ErrDuplicatePNR = errors.New("pnr already taken")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	MarkCancelled(ctx context.Context, id int64, at time.Time) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, flight_id, seats_booked, price_per_ticket, total_price, pnr, status, booked_at, cancelled_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	insert := func(q querier) error {
		return q.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, seats_booked, price_per_ticket, total_price, pnr, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, booked_at`,
			booking.UserID, booking.FlightID, booking.SeatsBooked,
			booking.PricePerTicket, booking.TotalPrice, booking.PNR, booking.Status).
			Scan(&booking.ID, &booking.BookedAt)
	}

	tx, inTx := conn(ctx, r.db).(pgx.Tx)
	if !inTx {
		if err := insert(r.db); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePNR
			}
			return err
		}
		return nil
	}

	// Savepoint, so a PNR collision aborts only this insert and the caller
	// can regenerate and retry without losing the surrounding transaction.
	nested, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	if err := insert(nested); err != nil {
		_ = nested.Rollback(ctx)
		if isUniqueViolation(err) {
			return ErrDuplicatePNR
		}
		return err
	}
	return nested.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
}

func (r *PGBookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
}

func (r *PGBookingRepository) get(ctx context.Context, query string, id int64) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE user_id=$1 ORDER BY booked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) MarkCancelled(ctx context.Context, id int64, at time.Time) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, `UPDATE bookings
		SET status=$2, cancelled_at=$3 WHERE id=$1
		RETURNING `+bookingColumns, id, domain.BookingStatusCancelled, at))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	return &b, nil
}

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.SeatsBooked, &b.PricePerTicket,
		&b.TotalPrice, &b.PNR, &b.Status, &b.BookedAt, &b.CancelledAt)
	return b, err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
