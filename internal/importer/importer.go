// Package importer loads catalog JSON exports into the products table.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"herbstore/internal/domain"
)

type productWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// Importer reads a JSON array of products and upserts each one.
type Importer struct {
	repo productWriter
}

func New(repo productWriter) *Importer {
	return &Importer{repo: repo}
}

// Run decodes and imports every product, returning how many were
// written. It stops at the first invalid record so a broken export does
// not half-apply.
func (i *Importer) Run(ctx context.Context, r io.Reader) (int, error) {
	var products []domain.Product
	dec := json.NewDecoder(r)
	if err := dec.Decode(&products); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	imported := 0
	for _, p := range products {
		if err := validate(p); err != nil {
			return imported, err
		}
		if _, err := i.repo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		imported++
	}
	return imported, nil
}

// validate rejects records that would later trip the cart's price guard.
func validate(p domain.Product) error {
	if p.Name == "" || p.Category == "" {
		return fmt.Errorf("invalid product (missing name or category) for %q", p.Name)
	}
	if len(p.Sizes) == 0 {
		return fmt.Errorf("product %q has no sizes", p.Name)
	}
	for _, v := range p.Sizes {
		if v.Size == "" {
			return fmt.Errorf("product %q has a variant without a size label", p.Name)
		}
		if math.IsNaN(v.Price) || math.IsInf(v.Price, 0) || v.Price <= 0 {
			return fmt.Errorf("product %q size %q has invalid price %v", p.Name, v.Size, v.Price)
		}
		if v.Stock < 0 {
			return fmt.Errorf("product %q size %q has negative stock", p.Name, v.Size)
		}
	}
	return nil
}
