// Package handler holds the gin handlers of the public API.
package handler

import (
	"github.com/duccv/go-product-catalog/config"
	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/constant"
	"github.com/duccv/go-product-catalog/internal/model/request"
	"github.com/duccv/go-product-catalog/internal/validation"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the API on r. requireAuth guards every route except
// sign-up, sign-in and, in public read mode, the single product read.
func RegisterRoutes(
	r gin.IRouter,
	auth *AuthHandler,
	products *ProductHandler,
	requireAuth gin.HandlerFunc,
	productReadAccess string,
) {
	r.POST("/register", validation.Validate[request.Register, any](), auth.Register)
	r.POST("/login", validation.Validate[request.Login, any](), auth.Login)

	protected := r.Group("", requireAuth)
	protected.DELETE("/logout", auth.Logout)
	protected.GET("/protected", auth.Protected)

	protected.POST("/products", validation.Validate[request.CreateProduct, any](), products.Create)
	protected.GET("/products", products.List)
	protected.GET("/all-products", products.ListAll)
	protected.PUT("/products/:id",
		validation.Validate[request.UpdateProduct, request.ProductURI](), products.Update)
	protected.DELETE("/products/:id",
		validation.Validate[any, request.ProductURI](), products.Delete)

	getOne := validation.Validate[any, request.ProductURI]()
	if productReadAccess == config.ProductReadAuthenticated {
		protected.GET("/products/:id", getOne, products.GetOwned)
	} else {
		r.GET("/products/:id", getOne, products.Get)
	}
}

// respondError writes the public body for err. Only unexpected errors are
// logged and attached to the context; their detail never reaches the client.
func respondError(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= 500 {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, constant.ResponseFor(err))
}
