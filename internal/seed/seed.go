package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"herbstore/internal/domain"
	productrepo "herbstore/internal/repository/product"
)

// Apply inserts the starter catalog. Idempotent via upsert on
// (name, category).
func Apply(ctx context.Context, repo productrepo.Repository, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for _, p := range catalog() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
	}
	logger.Printf("seeded %d products", len(catalog()))
	return nil
}

func catalog() []domain.Product {
	return []domain.Product{
		{
			Name:        "Neem & Tulsi Face Wash",
			Category:    "skin-care",
			Description: "Gentle daily cleanser with cold-pressed neem and tulsi extracts.",
			Images:      []string{"/images/products/neem-tulsi-face-wash.jpg"},
			Sizes: []domain.Variant{
				{Size: "100ml", Price: 249, Stock: 40, SKU: "SC-NTFW-100"},
				{Size: "200ml", Price: 429, Stock: 25, SKU: "SC-NTFW-200"},
			},
			Rating:  4.6,
			Reviews: 182,
		},
		{
			Name:        "Kumkumadi Night Serum",
			Category:    "skin-care",
			Description: "Saffron-infused facial oil for overnight repair.",
			Images:      []string{"/images/products/kumkumadi-serum.jpg"},
			Sizes: []domain.Variant{
				{Size: "15ml", Price: 649, Stock: 18, SKU: "SC-KNS-15"},
				{Size: "30ml", Price: 1149, Stock: 10, SKU: "SC-KNS-30"},
			},
			Rating:  4.8,
			Reviews: 94,
		},
		{
			Name:        "Aloe Vera Moisturising Gel",
			Category:    "skin-care",
			Description: "Pure aloe gel for face and body, no added fragrance.",
			Images:      []string{"/images/products/aloe-gel.jpg"},
			Sizes: []domain.Variant{
				{Size: "200g", Price: 299, Stock: 60, SKU: "SC-AVG-200"},
			},
			Rating:  4.4,
			Reviews: 267,
		},
		{
			Name:        "Bhringraj Hair Oil",
			Category:    "hair-care",
			Description: "Traditional slow-cooked bhringraj oil for scalp nourishment.",
			Images:      []string{"/images/products/bhringraj-oil.jpg"},
			Sizes: []domain.Variant{
				{Size: "100ml", Price: 349, Stock: 35, SKU: "HC-BHO-100"},
				{Size: "200ml", Price: 599, Stock: 20, SKU: "HC-BHO-200"},
			},
			Rating:  4.7,
			Reviews: 321,
		},
		{
			Name:        "Shikakai & Reetha Shampoo Bar",
			Category:    "hair-care",
			Description: "Zero-waste cleansing bar with shikakai, reetha and amla.",
			Images:      []string{"/images/products/shampoo-bar.jpg"},
			Sizes: []domain.Variant{
				{Size: "75g", Price: 199, Stock: 50, SKU: "HC-SRB-75"},
			},
			Rating:  4.3,
			Reviews: 148,
		},
		{
			Name:        "Herbal Tooth Powder",
			Category:    "oral-care",
			Description: "Clove, neem bark and rock salt powder for daily use.",
			Images:      []string{"/images/products/tooth-powder.jpg"},
			Sizes: []domain.Variant{
				{Size: "50g", Price: 149, Stock: 80, SKU: "OC-HTP-50"},
				{Size: "100g", Price: 259, Stock: 45, SKU: "OC-HTP-100"},
			},
			Rating:  4.5,
			Reviews: 203,
		},
		{
			Name:        "Mishwak Toothpaste",
			Category:    "oral-care",
			Description: "Fluoride-free toothpaste with mishwak and mint.",
			Images:      []string{"/images/products/mishwak-toothpaste.jpg"},
			Sizes: []domain.Variant{
				{Size: "100g", Price: 129, Stock: 90, SKU: "OC-MTP-100"},
			},
			Rating:  4.2,
			Reviews: 117,
		},
	}
}
