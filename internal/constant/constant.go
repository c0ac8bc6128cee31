package constant

// Keys stored on the gin context by middleware.
const (
	CtxUserID     = "userId"
	CtxUser       = "user"
	CtxJWTPayload = "jwtPayload"
	CtxRequestID  = "requestId"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderRequestID     = "X-Request-ID"
)
