// Package repository declares the storage contracts. Implementations live in
// the memory, postgres and redisledger subpackages; missing rows are reported
// as apperror.ErrNotFound and unique violations as apperror.ErrDuplicateIdentity.
package repository

import (
	"context"
	"time"

	"github.com/duccv/go-product-catalog/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create assigns user.ID and user.CreatedAt.
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByIdentity matches either the username or the email.
	FindByIdentity(ctx context.Context, identity string) (*model.User, error)
}

// ProductRepository scopes every mutation to the owner. A product owned by
// someone else is indistinguishable from a missing one.
type ProductRepository interface {
	Create(ctx context.Context, ownerID int64, fields model.ProductFields) (*model.Product, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Product, error)
	ListAllWithOwner(ctx context.Context) ([]model.ProductWithOwner, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*model.Product, error)
	Update(ctx context.Context, id, ownerID int64, patch model.ProductPatch) (*model.Product, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

// RevocationLedger records logged-out token ids.
type RevocationLedger interface {
	// Revoke is idempotent.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Prune drops records whose token expired before now.
	Prune(ctx context.Context, now time.Time) (int64, error)
}
