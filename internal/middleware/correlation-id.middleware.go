package middleware

import (
	"github.com/duccv/go-product-catalog/internal/constant"
	"github.com/duccv/go-product-catalog/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(constant.HeaderCorrelationID)
		if cid == "" {
			cid = uuid.New().String()
		}
		ctx := logger.ContextWithCorrelationID(c.Request.Context(), cid)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(constant.HeaderCorrelationID, cid)
		c.Next()
	}
}
