package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aam9063/dogwalk/internal/model"
	"github.com/aam9063/dogwalk/internal/repository/base"
)

type PriceRepository struct {
	db base.Querier
}

func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{db: pool}
}

// Get returns the walker's price for a service, or nil when not configured.
func (r *PriceRepository) Get(ctx context.Context, walkerID, serviceID int64) (*model.WalkerPrice, error) {
	query := `
		SELECT id, walker_id, service_id, amount_cents, currency
		FROM walker_prices
		WHERE walker_id = $1 AND service_id = $2`

	var price model.WalkerPrice
	err := r.db.QueryRow(ctx, query, walkerID, serviceID).Scan(
		&price.ID,
		&price.WalkerID,
		&price.ServiceID,
		&price.AmountCents,
		&price.Currency,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get walker price: %w", err)
	}

	return &price, nil
}

// Upsert creates or replaces the walker's price for a service. The unique
// (walker_id, service_id) constraint keeps the price list to one row per pair.
func (r *PriceRepository) Upsert(ctx context.Context, price *model.WalkerPrice) error {
	query := `
		INSERT INTO walker_prices (walker_id, service_id, amount_cents, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (walker_id, service_id)
		DO UPDATE SET amount_cents = EXCLUDED.amount_cents, currency = EXCLUDED.currency
		RETURNING id`

	err := r.db.QueryRow(
		ctx, query,
		price.WalkerID,
		price.ServiceID,
		price.AmountCents,
		price.Currency,
	).Scan(&price.ID)
	if err != nil {
		return fmt.Errorf("upsert walker price: %w", err)
	}

	return nil
}

// ListByWalker returns a walker's whole price list.
func (r *PriceRepository) ListByWalker(ctx context.Context, walkerID int64) ([]*model.WalkerPrice, error) {
	query := `
		SELECT id, walker_id, service_id, amount_cents, currency
		FROM walker_prices
		WHERE walker_id = $1
		ORDER BY service_id`

	rows, err := r.db.Query(ctx, query, walkerID)
	if err != nil {
		return nil, fmt.Errorf("list walker prices: %w", err)
	}
	defer rows.Close()

	var prices []*model.WalkerPrice
	for rows.Next() {
		var price model.WalkerPrice
		err := rows.Scan(&price.ID, &price.WalkerID, &price.ServiceID, &price.AmountCents, &price.Currency)
		if err != nil {
			return nil, fmt.Errorf("scan walker price: %w", err)
		}
		prices = append(prices, &price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list walker prices: %w", err)
	}

	return prices, nil
}
