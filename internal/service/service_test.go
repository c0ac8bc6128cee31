package service

import (
	"context"
	"testing"
	"time"

	"github.com/duccv/go-product-catalog/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type fixture struct {
	users    *memory.UserRepository
	products *memory.ProductRepository
	ledger   *memory.RevocationLedger
	tokens   *TokenService
	auth     *AuthService
	catalog  *ProductService
}

func newFixture(t *testing.T, opts ...TokenOption) *fixture {
	t.Helper()
	users := memory.NewUserRepository()
	products := memory.NewProductRepository(users)
	ledger := memory.NewRevocationLedger()
	tokens := NewTokenService(testSecret, time.Hour, "product-catalog", opts...)

	auth, err := NewAuthService(users, ledger, tokens, bcrypt.MinCost)
	require.NoError(t, err)

	return &fixture{
		users:    users,
		products: products,
		ledger:   ledger,
		tokens:   tokens,
		auth:     auth,
		catalog:  NewProductService(products),
	}
}

func ctx() context.Context {
	return context.Background()
}
