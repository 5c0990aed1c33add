package domain

import "time"

// Variant is one purchasable size of a product, e.g. "200g".
type Variant struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
	Stock int     `json:"stock,omitempty"`
	SKU   string  `json:"sku,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Sizes       []Variant `json:"sizes"`
	Rating      float64   `json:"rating,omitempty"`
	Reviews     int       `json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VariantBySize returns the variant with the given size label, or nil.
func (p Product) VariantBySize(size string) *Variant {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i]
		}
	}
	return nil
}
