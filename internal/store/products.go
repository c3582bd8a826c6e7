package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mamde/storefront/internal/domain"
)

const productColumns = `id, name, description, category, subcategory, weight, purity, material,
	image_url, image_urls, featured, region, in_stock, created_at, updated_at`

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	Category     string
	Subcategory  string
	FeaturedOnly bool
}

// productQuery builds the listing query for filter.
func productQuery(filter ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Subcategory != "" {
		args = append(args, filter.Subcategory)
		where = append(where, fmt.Sprintf("subcategory = $%d", len(args)))
	}
	if filter.FeaturedOnly {
		where = append(where, "featured")
	}

	q := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, name"
	return q, args
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		id       uuid.UUID
		material string
	)
	err := row.Scan(&id, &p.Name, &p.Description, &p.Category, &p.Subcategory, &p.Weight, &p.Purity, &material,
		&p.ImageURL, &p.ImageURLs, &p.Featured, &p.Region, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id.String()
	p.Material = domain.Material(material)
	return p, nil
}

func (s *PgStore) GetProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	q, args := productQuery(filter)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return products, nil
}

func (s *PgStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, ErrNotFound
	}

	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("getting product %s: %w", id, err)
	}
	return p, nil
}

// GetAllProductNames returns the name of every stored product.
func (s *PgStore) GetAllProductNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM products`)
	if err != nil {
		return nil, fmt.Errorf("listing product names: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// InsertProduct stores p under a new ID.
func (s *PgStore) InsertProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	return s.UpsertProduct(ctx, p)
}

// UpsertProduct creates or replaces the product with p.ID.
func (s *PgStore) UpsertProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	pid, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid product id %q: %w", p.ID, err)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	now := time.Now().UTC()
	saved, err := scanProduct(s.pool.QueryRow(ctx,
		`INSERT INTO products (id, name, description, category, subcategory, weight, purity, material,
		                       image_url, image_urls, featured, region, in_stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		 ON CONFLICT (id) DO UPDATE SET
		     name = $2, description = $3, category = $4, subcategory = $5, weight = $6,
		     purity = $7, material = $8, image_url = $9, image_urls = $10, featured = $11,
		     region = $12, in_stock = $13, updated_at = $14
		 RETURNING `+productColumns,
		pid, p.Name, p.Description, p.Category, p.Subcategory, p.Weight, p.Purity, string(p.Material),
		p.ImageURL, p.ImageURLs, p.Featured, p.Region, p.InStock, now))
	if err != nil {
		return domain.Product{}, fmt.Errorf("saving product %q: %w", p.Name, err)
	}
	return saved, nil
}

func (s *PgStore) DeleteProduct(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
