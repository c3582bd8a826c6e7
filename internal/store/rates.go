package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mamde/storefront/internal/domain"
)

func scanRate(row pgx.Row) (domain.RateQuote, error) {
	var (
		q        domain.RateQuote
		material string
	)
	if err := row.Scan(&material, &q.RatePerGram, &q.Change, &q.Source, &q.ObservedAt); err != nil {
		return domain.RateQuote{}, err
	}
	q.Material = domain.Material(material)
	return q, nil
}

// GetRates returns the stored quote of every material.
func (s *PgStore) GetRates(ctx context.Context) ([]domain.RateQuote, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT material, rate, change, source, observed_at FROM metal_rates ORDER BY material`)
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}
	defer rows.Close()

	var quotes []domain.RateQuote
	for rows.Next() {
		q, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rate: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rates: %w", err)
	}
	return quotes, nil
}

func (s *PgStore) GetRate(ctx context.Context, m domain.Material) (domain.RateQuote, error) {
	q, err := scanRate(s.pool.QueryRow(ctx,
		`SELECT material, rate, change, source, observed_at FROM metal_rates WHERE material = $1`, string(m)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateQuote{}, ErrNotFound
		}
		return domain.RateQuote{}, fmt.Errorf("getting rate for %s: %w", m, err)
	}
	return q, nil
}

// UpsertRate stores q unless a newer observation is already stored, and
// returns the quote that is stored afterwards.
func (s *PgStore) UpsertRate(ctx context.Context, q domain.RateQuote) (domain.RateQuote, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO metal_rates (material, rate, change, source, observed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (material) DO UPDATE
		 SET rate = $2, change = $3, source = $4, observed_at = $5
		 WHERE metal_rates.observed_at <= $5`,
		string(q.Material), q.RatePerGram, q.Change, q.Source, q.ObservedAt)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("saving rate for %s: %w", q.Material, err)
	}
	return s.GetRate(ctx, q.Material)
}
