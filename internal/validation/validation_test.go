package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duccv/go-product-catalog/internal/model/request"
	"github.com/duccv/go-product-catalog/internal/model/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/products/:id",
		Validate[request.UpdateProduct, request.ProductURI](),
		func(c *gin.Context) {
			body := Body[request.UpdateProduct](c)
			params := Params[request.ProductURI](c)
			out := gin.H{"id": params.ID}
			if body.Price != nil {
				out["price"] = *body.Price
			}
			c.JSON(http.StatusOK, out)
		})
	r.POST("/products", Validate[request.CreateProduct, any](), func(c *gin.Context) {
		c.JSON(http.StatusCreated, Body[request.CreateProduct](c).Fields())
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateBindsBodyAndParams(t *testing.T) {
	w := do(newRouter(), http.MethodPut, "/products/12", `{"price":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 12.0, out["id"])
	assert.Equal(t, 0.0, out["price"])
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name, method, path, body, message string
	}{
		{"missing price", http.MethodPost, "/products", `{"name":"x"}`, "Missing required fields"},
		{"negative price", http.MethodPost, "/products", `{"name":"x","price":-1}`, "Missing required fields"},
		{"malformed json", http.MethodPost, "/products", `{"name":`, "Invalid request payload"},
		{"bad id", http.MethodPut, "/products/abc", `{}`, "Invalid request payload"},
		{"zero id", http.MethodPut, "/products/0", `{}`, "Missing required fields"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(newRouter(), tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var res response.ResponseData
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			assert.Equal(t, http.StatusBadRequest, res.Ec)
			assert.Equal(t, tc.message, res.Message)
			assert.NotEmpty(t, res.Error)
		})
	}
}
