package handler

import (
	"net/http"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/middleware"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/internal/model/request"
	"github.com/duccv/go-product-catalog/internal/model/response"
	"github.com/duccv/go-product-catalog/internal/service"
	"github.com/duccv/go-product-catalog/internal/validation"
	"github.com/duccv/go-product-catalog/util"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create godoc
//
//	@Summary	Create product
//	@Tags		Products
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		request.CreateProduct	true	"Product"
//	@Success	201		{object}	model.Product
//	@Failure	400		{object}	response.ResponseData
//	@Router		/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	body := validation.Body[request.CreateProduct](c)

	product, err := h.products.Create(c.Request.Context(), user.ID, body.Fields())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// List godoc
//
//	@Summary	List own products
//	@Tags		Products
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	model.Product
//	@Router		/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}

	products, err := h.products.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// ListAll godoc
//
//	@Summary	List every product with its owner
//	@Tags		Products
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	model.ProductWithOwner
//	@Router		/all-products [get]
func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.products.ListAllWithOwner(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []model.ProductWithOwner{}
	}
	c.JSON(http.StatusOK, products)
}

// Get godoc
//
//	@Summary	Get product
//	@Tags		Products
//	@Produce	json
//	@Param		id	path		int	true	"Product id"
//	@Success	200	{object}	model.Product
//	@Success	304
//	@Failure	404	{object}	response.ResponseData
//	@Router		/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id := validation.Params[request.ProductURI](c).ID

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	writeProduct(c, product)
}

// GetOwned is Get restricted to the caller's own products.
func (h *ProductHandler) GetOwned(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	id := validation.Params[request.ProductURI](c).ID

	product, err := h.products.GetOwned(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	writeProduct(c, product)
}

func writeProduct(c *gin.Context, product *model.Product) {
	etag := util.GenerateETag(product)
	c.Header("ETag", etag)
	if util.MatchesETag(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update godoc
//
//	@Summary		Update product
//	@Description	Supplied fields overwrite, absent ones are kept
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"Product id"
//	@Param			body	body		request.UpdateProduct	true	"Fields"
//	@Success		200		{object}	model.Product
//	@Failure		400		{object}	response.ResponseData
//	@Failure		404		{object}	response.ResponseData
//	@Router			/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	id := validation.Params[request.ProductURI](c).ID
	body := validation.Body[request.UpdateProduct](c)

	product, err := h.products.Update(c.Request.Context(), id, user.ID, body.Patch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete godoc
//
//	@Summary	Delete product
//	@Tags		Products
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Product id"
//	@Success	200	{object}	response.MessageResponse
//	@Failure	404	{object}	response.ResponseData
//	@Router		/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	id := validation.Params[request.ProductURI](c).ID

	if err := h.products.Delete(c.Request.Context(), id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Product deleted"})
}
