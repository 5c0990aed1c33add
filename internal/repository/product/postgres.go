package product

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"herbstore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, name, category, COALESCE(description, ''), images, sizes, rating, reviews, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, name, category, COALESCE(description, ''), images, sizes, rating, reviews, created_at
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return nil, err
	}
	sizesJSON, err := json.Marshal(p.Sizes)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO products (id, name, category, description, images, sizes, rating, reviews)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
ON CONFLICT (name, category) DO UPDATE SET
    description = EXCLUDED.description,
    images = EXCLUDED.images,
    sizes = EXCLUDED.sizes,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews
RETURNING id::text, created_at
`
	out := p
	err = r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Category,
		p.Description,
		imagesJSON,
		sizesJSON,
		p.Rating,
		p.Reviews,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert name=%q error=%v", p.Name, err)
		return nil, err
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var imagesJSON, sizesJSON []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &imagesJSON, &sizesJSON, &p.Rating, &p.Reviews, &p.CreatedAt); err != nil {
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, err
		}
	}
	if len(sizesJSON) > 0 {
		if err := json.Unmarshal(sizesJSON, &p.Sizes); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
