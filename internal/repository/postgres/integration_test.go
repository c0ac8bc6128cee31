package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dsnEnv points the tests below at a disposable database. Its tables are truncated.
const dsnEnv = "PRODUCT_CATALOG_TEST_POSTGRES_DSN"

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE users, products, revoked_tokens RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, repo *UserRepository, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func TestUserRepositoryIdentityUniqueness(t *testing.T) {
	pool := openTestPool(t)
	repo := NewUserRepository(pool, pool, time.Second)
	ctx := context.Background()

	alice := createUser(t, repo, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", ""},
		{"same email", "bob", "alice@example.com"},
		{"username equals an existing email", "alice@example.com", ""},
		{"email equals an existing username", "carol", "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &model.User{Username: tt.username, Email: tt.email, PasswordHash: "hash"})
			assert.ErrorIs(t, err, apperror.ErrDuplicateIdentity)
		})
	}

	// users without an email do not collide with each other
	createUser(t, repo, "dave", "")
	createUser(t, repo, "erin", "")

	found, err := repo.FindByIdentity(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductRepositoryPartialUpdate(t *testing.T) {
	pool := openTestPool(t)
	users := NewUserRepository(pool, pool, time.Second)
	repo := NewProductRepository(pool, pool, time.Second)
	ctx := context.Background()

	owner := createUser(t, users, "owner", "")
	other := createUser(t, users, "other", "")

	created, err := repo.Create(ctx, owner.ID, model.ProductFields{Name: "Lamp", Description: "Desk lamp", Price: 12.5})
	require.NoError(t, err)

	zero := 0.0
	updated, err := repo.Update(ctx, created.ID, owner.ID, model.ProductPatch{Price: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Price)
	assert.Equal(t, "Lamp", updated.Name)
	assert.Equal(t, "Desk lamp", updated.Description)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	empty := ""
	updated, err = repo.Update(ctx, created.ID, owner.ID, model.ProductPatch{Description: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, 0.0, updated.Price)

	name := "Stolen"
	_, err = repo.Update(ctx, created.ID, other.ID, model.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	negative := -1.0
	_, err = repo.Update(ctx, created.ID, owner.ID, model.ProductPatch{Price: &negative})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, 0.0, got.Price)

	all, err := repo.ListAllWithOwner(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "owner", all[0].Owner)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID, other.ID), apperror.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, created.ID, owner.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID, owner.ID), apperror.ErrNotFound)

	mine, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	_, err = repo.Create(ctx, 9999, model.ProductFields{Name: "Orphan", Price: 1})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRevocationLedgerRevokeTwiceAndPrune(t *testing.T) {
	pool := openTestPool(t)
	ledger := NewRevocationLedger(pool, pool, time.Second)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, ledger.Revoke(ctx, "jti-live", now.Add(time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "jti-live", now.Add(2*time.Hour)))
	require.NoError(t, ledger.Revoke(ctx, "jti-expired", now.Add(-time.Minute)))

	revoked, err := ledger.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = ledger.IsRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)

	pruned, err := ledger.Prune(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	revoked, err = ledger.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = ledger.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
