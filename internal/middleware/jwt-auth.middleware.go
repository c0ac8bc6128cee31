package middleware

import (
	"context"
	"net/http"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/constant"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"github.com/duccv/go-product-catalog/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *model.TokenClaims, error)
}

// JWTAuthMiddleware provides JWT authentication middleware
type JWTAuthMiddleware struct {
	auth Authenticator
}

func NewJWTAuthMiddleware(auth Authenticator) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{auth: auth}
}

// Authenticate rejects the request unless it carries a valid, unrevoked token
// of an existing user, and stores that user on the context.
func (m *JWTAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		user, claims, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		c.Set(constant.CtxUserID, user.ID)
		c.Set(constant.CtxUser, user)
		c.Set(constant.CtxJWTPayload, claims)

		logger.FromContext(c.Request.Context()).Debug("User authenticated successfully",
			zap.Int64("userId", user.ID),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(constant.CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// CurrentClaims returns the token claims stored by Authenticate.
func CurrentClaims(c *gin.Context) (*model.TokenClaims, bool) {
	v, ok := c.Get(constant.CtxJWTPayload)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.TokenClaims)
	return claims, ok
}

// handleAuthError handles authentication errors with proper logging
func handleAuthError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context()).With(
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("ip", getClientIP(c)),
	)

	if !apperror.IsAuth(err) {
		log.Error("Authentication lookup failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
		return
	}

	log.Warn("Authentication failed", zap.Error(err))
	metrics.IncAuthEvent(metrics.EventTokenRejected)
	c.AbortWithStatusJSON(apperror.StatusCode(err), constant.ResponseFor(err))
}
