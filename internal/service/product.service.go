package service

import (
	"context"
	"math"
	"strings"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/internal/repository"
)

// ProductService applies the catalog rules on top of the product store.
// Every mutation is scoped to the owner.
type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, ownerID int64, fields model.ProductFields) (*model.Product, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if err := checkPrice(fields.Price); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, ownerID, fields)
}

func (s *ProductService) ListByOwner(ctx context.Context, ownerID int64) ([]model.Product, error) {
	return s.products.ListByOwner(ctx, ownerID)
}

func (s *ProductService) ListAllWithOwner(ctx context.Context) ([]model.ProductWithOwner, error) {
	return s.products.ListAllWithOwner(ctx)
}

// Get reads any product regardless of owner.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.products.Get(ctx, id)
}

// GetOwned reads a product only when ownerID owns it.
func (s *ProductService) GetOwned(ctx context.Context, id, ownerID int64) (*model.Product, error) {
	return s.products.GetOwned(ctx, id, ownerID)
}

// Update writes every supplied field, zero values included. An empty patch
// returns the product as stored.
func (s *ProductService) Update(
	ctx context.Context,
	id, ownerID int64,
	patch model.ProductPatch,
) (*model.Product, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Price != nil {
		if err := checkPrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.IsEmpty() {
		return s.products.GetOwned(ctx, id, ownerID)
	}
	return s.products.Update(ctx, id, ownerID, patch)
}

func (s *ProductService) Delete(ctx context.Context, id, ownerID int64) error {
	return s.products.Delete(ctx, id, ownerID)
}

func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return apperror.Validation("price must be a non-negative number")
	}
	return nil
}
