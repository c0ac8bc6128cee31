package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duccv/go-product-catalog/config"
	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/middleware"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/internal/model/response"
	"github.com/duccv/go-product-catalog/internal/repository/memory"
	"github.com/duccv/go-product-catalog/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type client struct {
	t      *testing.T
	router *gin.Engine
}

func newClient(t *testing.T, readAccess string) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUserRepository()
	products := memory.NewProductRepository(users)
	ledger := memory.NewRevocationLedger()
	tokens := service.NewTokenService([]byte("test-secret"), time.Hour, "product-catalog")
	auth, err := service.NewAuthService(users, ledger, tokens, bcrypt.MinCost)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.CorrelationIDMiddleware())
	RegisterRoutes(r,
		NewAuthHandler(auth),
		NewProductHandler(service.NewProductService(products)),
		middleware.NewJWTAuthMiddleware(auth).Authenticate(),
		readAccess,
	)
	return &client{t: t, router: r}
}

func (cl *client) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	cl.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(cl.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (cl *client) register(username, password string) string {
	cl.t.Helper()
	w := cl.do(http.MethodPost, "/register", "", gin.H{"username": username, "password": password})
	require.Equal(cl.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[response.RegisterResponse](cl.t, w).AccessToken
}

func (cl *client) login(username, password string) string {
	cl.t.Helper()
	w := cl.do(http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(cl.t, http.StatusOK, w.Code, w.Body.String())
	return decode[response.TokenResponse](cl.t, w).AccessToken
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	res := decode[response.ResponseData](t, w)
	assert.Equal(t, status, res.Ec)
	assert.Equal(t, message, res.Message)
}

func TestRegisterAndLogin(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)

	w := cl.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[response.RegisterResponse](t, w)
	assert.Equal(t, "User created successfully!", reg.Message)
	assert.NotEmpty(t, reg.AccessToken)

	w = cl.do(http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "pw2"})
	assertError(t, w, http.StatusBadRequest, "User already exists!")

	w = cl.do(http.MethodPost, "/register", "", gin.H{"username": "carol"})
	assertError(t, w, http.StatusBadRequest, "Missing required fields")

	w = cl.do(http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "nope"})
	assertError(t, w, http.StatusUnauthorized, "Invalid username or password")

	token := cl.login("alice", "pw1")
	w = cl.do(http.MethodGet, "/protected", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[response.ProtectedResponse](t, w).LoggedInAs)
}

func TestAuthHeaderErrors(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)

	w := cl.do(http.MethodGet, "/protected", "", nil)
	assertError(t, w, http.StatusUnauthorized, "Missing Authorization Header")

	w = cl.do(http.MethodGet, "/protected", "not-a-jwt", nil)
	assertError(t, w, http.StatusUnauthorized, "Signature verification failed")

	w = cl.do(http.MethodGet, "/products", "", nil, "Authorization", "Basic abc")
	assertError(t, w, http.StatusUnauthorized, "Missing Authorization Header")
}

func TestLogoutRevokesToken(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)
	token := cl.register("alice", "pw1")

	w := cl.do(http.MethodDelete, "/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", decode[response.MessageResponse](t, w).Message)

	for _, path := range []string{"/protected", "/products", "/all-products"} {
		w = cl.do(http.MethodGet, path, token, nil)
		assertError(t, w, http.StatusUnauthorized, "Token has been revoked")
	}
	w = cl.do(http.MethodDelete, "/logout", token, nil)
	assertError(t, w, http.StatusUnauthorized, "Token has been revoked")

	fresh := cl.login("alice", "pw1")
	w = cl.do(http.MethodGet, "/protected", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAliceAndBob(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)
	alice := cl.register("alice", "pw1")
	bob := cl.register("bob", "pw2")

	w := cl.do(http.MethodPost, "/products", alice, gin.H{"name": "Widget", "description": "A widget", "price": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Product](t, w)
	assert.Equal(t, "Widget", created.Name)
	path := fmt.Sprintf("/products/%d", created.ID)

	// bob sees nothing of his own
	w = cl.do(http.MethodGet, "/products", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// but the listing of everything names alice as owner
	w = cl.do(http.MethodGet, "/all-products", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]model.ProductWithOwner](t, w)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].Owner)

	w = cl.do(http.MethodPut, path, bob, gin.H{"name": "Stolen"})
	assertError(t, w, http.StatusNotFound, "Product not found")
	w = cl.do(http.MethodDelete, path, bob, nil)
	assertError(t, w, http.StatusNotFound, "Product not found")

	// public read mode: anyone can fetch by id
	w = cl.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Widget", decode[model.Product](t, w).Name)

	w = cl.do(http.MethodPut, path, alice, gin.H{"price": 9.99})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[model.Product](t, w)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, "A widget", updated.Description)
	assert.Equal(t, 9.99, updated.Price)

	w = cl.do(http.MethodPut, path, alice, gin.H{"price": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decode[model.Product](t, w).Price)

	w = cl.do(http.MethodPut, path, alice, gin.H{"price": -3})
	assertError(t, w, http.StatusBadRequest, "Missing required fields")

	w = cl.do(http.MethodDelete, path, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted", decode[response.MessageResponse](t, w).Message)

	w = cl.do(http.MethodGet, path, "", nil)
	assertError(t, w, http.StatusNotFound, "Product not found")
}

func TestProductCreateValidation(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)
	alice := cl.register("alice", "pw1")

	w := cl.do(http.MethodPost, "/products", alice, gin.H{"name": "Widget"})
	assertError(t, w, http.StatusBadRequest, "Missing required fields")

	w = cl.do(http.MethodPost, "/products", alice, gin.H{"price": 1})
	assertError(t, w, http.StatusBadRequest, "Missing required fields")
}

func TestAuthenticatedReadMode(t *testing.T) {
	cl := newClient(t, config.ProductReadAuthenticated)
	alice := cl.register("alice", "pw1")
	bob := cl.register("bob", "pw2")

	w := cl.do(http.MethodPost, "/products", alice, gin.H{"name": "Widget", "price": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	path := fmt.Sprintf("/products/%d", decode[model.Product](t, w).ID)

	w = cl.do(http.MethodGet, path, "", nil)
	assertError(t, w, http.StatusUnauthorized, "Missing Authorization Header")

	w = cl.do(http.MethodGet, path, bob, nil)
	assertError(t, w, http.StatusNotFound, "Product not found")

	w = cl.do(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetProductETag(t *testing.T) {
	cl := newClient(t, config.ProductReadPublic)
	alice := cl.register("alice", "pw1")

	w := cl.do(http.MethodPost, "/products", alice, gin.H{"name": "Widget", "price": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	path := fmt.Sprintf("/products/%d", decode[model.Product](t, w).ID)

	w = cl.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w = cl.do(http.MethodGet, path, "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	w = cl.do(http.MethodPut, path, alice, gin.H{"price": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = cl.do(http.MethodGet, path, "", nil, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}

func TestRespondErrorAttachesOnlyServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err      error
		status   int
		attached int
	}{
		{apperror.ErrNotFound, http.StatusNotFound, 0},
		{apperror.ErrTokenRevoked, http.StatusUnauthorized, 0},
		{apperror.Validation("name is required"), http.StatusBadRequest, 0},
		{errors.New("connection reset"), http.StatusInternalServerError, 1},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/products/1", nil)

			respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Len(t, c.Errors, tc.attached)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}
