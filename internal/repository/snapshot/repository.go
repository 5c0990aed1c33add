package snapshot

import (
	"context"

	"herbstore/internal/domain"
)

// Repository stores one full cart snapshot per customer. Every save
// replaces the previous snapshot; there is no delta sync.
type Repository interface {
	Load(ctx context.Context, customerID string) ([]domain.LineItem, error)
	Save(ctx context.Context, customerID string, items []domain.LineItem) error
}
