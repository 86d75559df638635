package router

// Error codes
const (
	ErrInternalCode  = "INTERNAL_ERROR"
	ErrNotFoundCode  = "NOT_FOUND"
	ErrRateLimitCode = "RATE_LIMITED"
)

// Error messages
const (
	ErrMsgAppStateNotInitialized = "application state not initialized"
	ErrMsgRouteNotFound          = "route not found"
)
