package request

import "github.com/duccv/go-product-catalog/internal/model"

type CreateProduct struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
}

func (r CreateProduct) Fields() model.ProductFields {
	return model.ProductFields{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
	}
}

// UpdateProduct is a partial update; absent JSON keys stay nil.
type UpdateProduct struct {
	Name        *string  `json:"name"        validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
}

func (r UpdateProduct) Patch() model.ProductPatch {
	return model.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
}

type ProductURI struct {
	ID int64 `uri:"id" validate:"required,gt=0"`
}
