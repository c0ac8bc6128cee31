package model

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductWithOwner is a product joined with its owner's display name.
type ProductWithOwner struct {
	Product
	Owner string `json:"owner"`
}

// ProductFields are the values of a new product.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
}

// ProductPatch holds a partial update. A nil field is left untouched; a
// non-nil field is written even when it holds the zero value.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}

// Apply writes the supplied fields onto product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
}
