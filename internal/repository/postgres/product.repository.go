package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository serves listings from the read pool and everything that
// must observe the caller's own writes from the write pool.
type ProductRepository struct {
	store
}

func NewProductRepository(read, write *pgxpool.Pool, timeout time.Duration) *ProductRepository {
	return &ProductRepository{store{read: read, write: write, timeout: timeout}}
}

const productColumns = `id, name, description, price, owner_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, ownerID int64, fields model.ProductFields) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (name, description, price, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + productColumns
	product, err := scanProduct(r.write.QueryRow(ctx, query, fields.Name, fields.Description, fields.Price, ownerID))
	if err != nil {
		return nil, translate(err, "create product")
	}
	return product, nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE owner_id = $1 ORDER BY id`
	rows, err := r.read.Query(ctx, query, ownerID)
	if err != nil {
		return nil, translate(err, "list products")
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		products = append(products, *p)
	}
	return products, translate(rows.Err(), "list products")
}

func (r *ProductRepository) ListAllWithOwner(ctx context.Context) ([]model.ProductWithOwner, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.name, p.description, p.price, p.owner_id, p.created_at, p.updated_at,
		       COALESCE(NULLIF(u.name, ''), u.username)
		FROM products p
		JOIN users u ON u.id = p.owner_id
		ORDER BY p.id`
	rows, err := r.read.Query(ctx, query)
	if err != nil {
		return nil, translate(err, "list all products")
	}
	defer rows.Close()

	result := make([]model.ProductWithOwner, 0)
	for rows.Next() {
		var item model.ProductWithOwner
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.OwnerID,
			&item.CreatedAt, &item.UpdatedAt, &item.Owner)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		result = append(result, item)
	}
	return result, translate(rows.Err(), "list all products")
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.write.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %d", id))
	}
	return product, nil
}

func (r *ProductRepository) GetOwned(ctx context.Context, id, ownerID int64) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND owner_id = $2`
	product, err := scanProduct(r.write.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %d", id))
	}
	return product, nil
}

// Update overwrites only the non-nil patch fields, in a single statement.
func (r *ProductRepository) Update(ctx context.Context, id, ownerID int64, patch model.ProductPatch) (*model.Product, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name        = COALESCE($3, name),
		    description = COALESCE($4, description),
		    price       = COALESCE($5, price),
		    updated_at  = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + productColumns
	product, err := scanProduct(r.write.QueryRow(ctx, query, id, ownerID, patch.Name, patch.Description, patch.Price))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %d", id))
	}
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id, ownerID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.write.Exec(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return translate(err, fmt.Sprintf("delete product %d", id))
	}
	if tag.RowsAffected() == 0 {
		return translate(pgx.ErrNoRows, fmt.Sprintf("product %d", id))
	}
	return nil
}
