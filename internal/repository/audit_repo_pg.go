package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityDrift reports a flight whose availability counter disagrees
// with the seat ledger.
type AvailabilityDrift struct {
	FlightID       int64
	AvailableSeats int
	FreeSeats      int
}

type LedgerAuditRepository interface {
	FindAvailabilityDrift(ctx context.Context) ([]AvailabilityDrift, error)
	RepairAvailability(ctx context.Context, flightID int64) error
}

type PGLedgerAuditRepository struct {
	db *pgxpool.Pool
}

func NewLedgerAuditRepository(db *pgxpool.Pool) *PGLedgerAuditRepository {
	return &PGLedgerAuditRepository{db: db}
}

// FindAvailabilityDrift returns every flight where available_seats differs
// from the count of free seats in the ledger. An empty result is the
// invariant holding.
func (r *PGLedgerAuditRepository) FindAvailabilityDrift(ctx context.Context) ([]AvailabilityDrift, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT f.id, f.available_seats, COUNT(s.id) FILTER (WHERE NOT s.is_booked) AS free_seats
		FROM flights f
		LEFT JOIN seats s ON s.flight_id = f.id
		GROUP BY f.id, f.available_seats
		HAVING f.available_seats <> COUNT(s.id) FILTER (WHERE NOT s.is_booked)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drift []AvailabilityDrift
	for rows.Next() {
		var d AvailabilityDrift
		if err := rows.Scan(&d.FlightID, &d.AvailableSeats, &d.FreeSeats); err != nil {
			return nil, err
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}

// RepairAvailability resets the counter from the seat ledger inside a
// transaction that locks the flight row.
func (r *PGLedgerAuditRepository) RepairAvailability(ctx context.Context, flightID int64) error {
	_, err := conn(ctx, r.db).Exec(ctx, `UPDATE flights f
		SET available_seats = (SELECT COUNT(*) FROM seats s WHERE s.flight_id = f.id AND NOT s.is_booked),
		    updated_at = now()
		WHERE f.id = $1`, flightID)
	return err
}

var _ LedgerAuditRepository = (*PGLedgerAuditRepository)(nil)
