package middleware

import (
	"fmt"
	"strings"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperror.ErrMissingAuth
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("%w: expected 'Authorization: Bearer <token>'", apperror.ErrMissingAuth)
	}
	return parts[1], nil
}
