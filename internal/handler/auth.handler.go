package handler

import (
	"errors"
	"net/http"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/middleware"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/internal/model/request"
	"github.com/duccv/go-product-catalog/internal/model/response"
	"github.com/duccv/go-product-catalog/internal/service"
	"github.com/duccv/go-product-catalog/internal/validation"
	"github.com/duccv/go-product-catalog/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
//
//	@Summary		Register
//	@Description	Creates an account and returns an access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		request.Register	true	"Credentials"
//	@Success		201		{object}	response.RegisterResponse
//	@Failure		400		{object}	response.ResponseData
//	@Router			/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	body := validation.Body[request.Register](c)

	_, token, err := h.auth.Register(c.Request.Context(), model.Registration{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
		Gender:   body.Gender,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.IncAuthEvent(metrics.EventRegister)
	c.JSON(http.StatusCreated, response.RegisterResponse{
		Message:     "User created successfully!",
		AccessToken: token,
	})
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchanges a username (or email) and password for an access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		request.Login	true	"Credentials"
//	@Success		200		{object}	response.TokenResponse
//	@Failure		401		{object}	response.ResponseData
//	@Router			/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	body := validation.Body[request.Login](c)

	token, err := h.auth.Login(c.Request.Context(), body.Identity(), body.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			metrics.IncAuthEvent(metrics.EventLoginFailed)
		}
		respondError(c, err)
		return
	}

	metrics.IncAuthEvent(metrics.EventLogin)
	c.JSON(http.StatusOK, response.TokenResponse{AccessToken: token})
}

// Logout godoc
//
//	@Summary	Logout
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.MessageResponse
//	@Failure	401	{object}	response.ResponseData
//	@Router		/logout [delete]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	metrics.IncAuthEvent(metrics.EventLogout)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Successfully logged out"})
}

// Protected godoc
//
//	@Summary	Current user
//	@Tags		Auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	response.ProtectedResponse
//	@Failure	401	{object}	response.ResponseData
//	@Router		/protected [get]
func (h *AuthHandler) Protected(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, apperror.ErrMissingAuth)
		return
	}
	c.JSON(http.StatusOK, response.ProtectedResponse{LoggedInAs: user.Username})
}
