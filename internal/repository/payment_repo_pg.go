package repository

import (
	"context"
	"fmt"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context) ([]domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PGPaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO payments (booking_id, amount, payment_method, payment_status, transaction_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, payment_time`,
		payment.BookingID, payment.Amount, payment.Method, payment.Status, payment.TransactionID).
		Scan(&payment.ID, &payment.PaymentTime)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction id %s: %w", payment.TransactionID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *PGPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, booking_id, amount, payment_method, payment_status, transaction_id, payment_time
		FROM payments ORDER BY payment_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.PaymentTime); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
