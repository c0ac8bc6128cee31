package validation

import (
	"bytes"
	"io"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/duccv/go-product-catalog/internal/constant"
)

const (
	validatedBodyKey   = "validatedBody"
	validatedParamsKey = "validatedParams"
)

var validate *validator.Validate = validator.New()

func isEmptyInterface[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t == reflect.TypeOf((*any)(nil)).Elem()
}

// abort answers 400. Malformed input gets the generic invalid-payload body,
// rule violations the missing-fields body; both carry the detail.
func abort(c *gin.Context, err error) {
	resData := constant.INVALID_REQUEST
	if _, ok := err.(validator.ValidationErrors); ok {
		resData = constant.BAD_REQUEST
	}
	resData.Error = err.Error()
	c.AbortWithStatusJSON(http.StatusBadRequest, resData)
}

// Validate binds and validates the JSON body B and the uri params P. Pass any
// to skip a part. The results are read back with Body and Params.
func Validate[B any, P any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		// --- Params ---
		if !isEmptyInterface[P]() {
			var params P

			if err := c.ShouldBindUri(&params); err != nil {
				abort(c, err)
				return
			}
			if err := validate.Struct(params); err != nil {
				abort(c, err)
				return
			}
			c.Set(validatedParamsKey, params)
		}

		// --- Body ---
		if !isEmptyInterface[B]() {
			var body B

			rawData, err := io.ReadAll(c.Request.Body)
			if err != nil {
				abort(c, err)
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))

			if err := c.ShouldBindJSON(&body); err != nil {
				abort(c, err)
				return
			}
			if err := validate.Struct(body); err != nil {
				abort(c, err)
				return
			}

			// restore so later handlers can read the body again
			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))
			c.Set(validatedBodyKey, body)
		}

		c.Next()
	}
}

func Body[B any](c *gin.Context) B {
	return get[B](c, validatedBodyKey)
}

func Params[P any](c *gin.Context) P {
	return get[P](c, validatedParamsKey)
}

func get[T any](c *gin.Context, key string) T {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero
	}
	out, ok := v.(T)
	if !ok {
		return zero
	}
	return out
}
