package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
)

// ProductRepository keeps products in process memory. Owners are resolved
// against users so the owner reference always points at an existing user.
type ProductRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]model.Product
	users    *UserRepository
}

func NewProductRepository(users *UserRepository) *ProductRepository {
	return &ProductRepository{
		products: make(map[int64]model.Product),
		users:    users,
	}
}

func (r *ProductRepository) Create(ctx context.Context, ownerID int64, fields model.ProductFields) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := r.users.displayName(ownerID); !ok {
		return nil, fmt.Errorf("owner %d: %w", ownerID, apperror.ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.nextID++
	product := model.Product{
		ID:          r.nextID,
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.products[product.ID] = product
	return &product, nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0)
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *ProductRepository) ListAllWithOwner(ctx context.Context) ([]model.ProductWithOwner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.ProductWithOwner, 0, len(r.products))
	for _, p := range r.products {
		owner, ok := r.users.displayName(p.OwnerID)
		if !ok {
			continue
		}
		result = append(result, model.ProductWithOwner{Product: p, Owner: owner})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	return &product, nil
}

func (r *ProductRepository) GetOwned(ctx context.Context, id, ownerID int64) (*model.Product, error) {
	product, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id, ownerID int64, patch model.ProductPatch) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.OwnerID != ownerID {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	patch.Apply(&product)
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id, ownerID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok || product.OwnerID != ownerID {
		return fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
