package constant

import (
	"errors"
	"net/http"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model/response"
)

var BAD_REQUEST = response.ResponseData{
	Ec:      http.StatusBadRequest,
	Message: "Missing required fields",
}

var INVALID_REQUEST = response.ResponseData{
	Ec:      http.StatusBadRequest,
	Message: "Invalid request payload",
}

var USER_EXISTS = response.ResponseData{
	Ec:      http.StatusBadRequest,
	Message: "User already exists!",
}

var INVALID_CREDENTIALS = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Invalid username or password",
}

var MISSING_AUTH = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Missing Authorization Header",
}

var INVALID_TOKEN = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Signature verification failed",
}

var TOKEN_EXPIRED = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Token has expired",
}

var TOKEN_REVOKED = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Token has been revoked",
}

var UNKNOWN_USER = response.ResponseData{
	Ec:      http.StatusUnauthorized,
	Message: "Error loading the user",
}

var NOT_FOUND = response.ResponseData{
	Ec:      http.StatusNotFound,
	Message: "Product not found",
}

var ROUTE_NOT_FOUND = response.ResponseData{
	Ec:      http.StatusNotFound,
	Message: "Resource not found",
}

var METHOD_NOT_ALLOWED = response.ResponseData{
	Ec:      http.StatusMethodNotAllowed,
	Message: "Method not allowed",
}

var REQUEST_TIMEOUT = response.ResponseData{
	Ec:      http.StatusRequestTimeout,
	Message: "Request timeout",
}

var INTERNAL_SERVER_ERROR = response.ResponseData{
	Ec:      http.StatusInternalServerError,
	Message: "Internal server error",
}

// ResponseFor picks the public response body for err. Internal detail is only
// surfaced for validation errors.
func ResponseFor(err error) response.ResponseData {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		res := BAD_REQUEST
		res.Error = err.Error()
		return res
	case errors.Is(err, apperror.ErrDuplicateIdentity):
		return USER_EXISTS
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return INVALID_CREDENTIALS
	case errors.Is(err, apperror.ErrMissingAuth):
		return MISSING_AUTH
	case errors.Is(err, apperror.ErrTokenExpired):
		return TOKEN_EXPIRED
	case errors.Is(err, apperror.ErrTokenRevoked):
		return TOKEN_REVOKED
	case errors.Is(err, apperror.ErrInvalidSignature):
		return INVALID_TOKEN
	case errors.Is(err, apperror.ErrUnknownSubject):
		return UNKNOWN_USER
	case errors.Is(err, apperror.ErrNotFound):
		return NOT_FOUND
	default:
		return INTERNAL_SERVER_ERROR
	}
}
