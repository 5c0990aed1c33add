package snapshot

import (
	"context"
	"encoding/json"
	"errors"

	"herbstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Load returns (nil, nil) when the customer has no snapshot.
func (r *postgresRepo) Load(ctx context.Context, customerID string) ([]domain.LineItem, error) {
	const q = `
SELECT items
FROM cart_snapshots
WHERE customer_id = $1
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, customerID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Save(ctx context.Context, customerID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO cart_snapshots (customer_id, items, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (customer_id) DO UPDATE SET
    items = EXCLUDED.items,
    updated_at = now()
`
	_, err = r.pool.Exec(ctx, q, customerID, data)
	return err
}
