// Package catalog serves product browsing: listing with category/search
// filters and sorting, single-product fetch, and related products.
package catalog

import (
	"context"
	"sort"
	"strings"

	"herbstore/internal/domain"
	productrepo "herbstore/internal/repository/product"
)

// relatedLimit caps the related-products strip.
const relatedLimit = 4

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// ListQuery narrows and orders a product listing. Zero values mean "all
// products, sorted by name".
type ListQuery struct {
	Category string
	Search   string
	Sort     string
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range products {
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, q.Sort)
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Related returns other products from the same category.
func (s *Service) Related(ctx context.Context, id string) ([]domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var related []domain.Product
	for _, other := range products {
		if other.ID == p.ID || other.Category != p.Category {
			continue
		}
		related = append(related, other)
		if len(related) == relatedLimit {
			break
		}
	}
	return related, nil
}

func matchesSearch(p domain.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) {
		return true
	}
	category := strings.ToLower(strings.ReplaceAll(p.Category, "-", " "))
	return strings.Contains(category, search)
}

// sortProducts orders in place. Price sorts compare the first listed
// size, matching how listings display a product's price.
func sortProducts(products []domain.Product, by string) {
	switch by {
	case "price-low":
		sort.SliceStable(products, func(i, j int) bool {
			return leadPrice(products[i]) < leadPrice(products[j])
		})
	case "price-high":
		sort.SliceStable(products, func(i, j int) bool {
			return leadPrice(products[i]) > leadPrice(products[j])
		})
	case "rating":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Name < products[j].Name
		})
	}
}

func leadPrice(p domain.Product) float64 {
	if len(p.Sizes) == 0 {
		return 0
	}
	return p.Sizes[0].Price
}
