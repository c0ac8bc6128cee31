package memory

import (
	"context"
	"testing"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, users *UserRepository, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()

	alice := newUser(t, users, "alice", "alice@example.com")
	assert.Equal(t, int64(1), alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	byName, err := users.FindByIdentity(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byMail, err := users.FindByIdentity(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byMail.ID)

	byID, err := users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = users.FindByIdentity(ctx, "bob")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = users.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUserRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	newUser(t, users, "alice", "alice@example.com")

	err := users.Create(ctx, &model.User{Username: "alice"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)

	err = users.Create(ctx, &model.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)

	err = users.Create(ctx, &model.User{Username: "alice@example.com"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)
}

func TestProductRepositoryOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	products := NewProductRepository(users)
	alice := newUser(t, users, "alice", "")
	bob := newUser(t, users, "bob", "")

	widget, err := products.Create(ctx, alice.ID, model.ProductFields{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	name := "Stolen"
	_, err = products.Update(ctx, widget.ID, bob.ID, model.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, widget.ID, bob.ID), apperror.ErrNotFound)
	_, err = products.GetOwned(ctx, widget.ID, bob.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := products.GetOwned(ctx, widget.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)

	bobs, err := products.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.NotNil(t, bobs)
	assert.Empty(t, bobs)

	require.NoError(t, products.Delete(ctx, widget.ID, alice.ID))
	_, err = products.Get(ctx, widget.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductRepositoryRequiresExistingOwner(t *testing.T) {
	products := NewProductRepository(NewUserRepository())
	_, err := products.Create(context.Background(), 7, model.ProductFields{Name: "Orphan"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductRepositoryPartialUpdateWritesZeroValues(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	products := NewProductRepository(users)
	alice := newUser(t, users, "alice", "")

	p, err := products.Create(ctx, alice.ID, model.ProductFields{Name: "Widget", Description: "blue", Price: 9.99})
	require.NoError(t, err)

	zero := 0.0
	empty := ""
	updated, err := products.Update(ctx, p.ID, alice.ID, model.ProductPatch{Price: &zero, Description: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, 0.0, updated.Price)
}

func TestProductRepositoryListAllWithOwner(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	products := NewProductRepository(users)
	alice := &model.User{Username: "alice", Name: "Alice A."}
	require.NoError(t, users.Create(ctx, alice))
	bob := newUser(t, users, "bob", "")

	_, err := products.Create(ctx, alice.ID, model.ProductFields{Name: "Widget", Price: 1})
	require.NoError(t, err)
	_, err = products.Create(ctx, bob.ID, model.ProductFields{Name: "Gadget", Price: 2})
	require.NoError(t, err)

	all, err := products.ListAllWithOwner(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Widget", all[0].Name)
	assert.Equal(t, "Alice A.", all[0].Owner)
	assert.Equal(t, "Gadget", all[1].Name)
	assert.Equal(t, "bob", all[1].Owner)
}

func TestRevocationLedger(t *testing.T) {
	ctx := context.Background()
	ledger := NewRevocationLedger()
	now := time.Now()

	revoked, err := ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "jti-2", now.Add(-time.Minute)))
	assert.Equal(t, 2, ledger.Len())

	revoked, err = ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	removed, err := ledger.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err = ledger.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = ledger.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserRepository().FindByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = NewRevocationLedger().IsRevoked(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
