package repository

import (
	"context"

	"github.com/avolkov/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	List(ctx context.Context) ([]domain.Airline, error)
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) *PGAirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name, code, country, created_at FROM airlines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.Country, &a.CreatedAt); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
