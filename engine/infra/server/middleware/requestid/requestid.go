package requestid

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderName = "X-Request-ID"
	ContextKey = "request_id"
	maxLength  = 128
)

// Middleware propagates a caller supplied X-Request-ID or assigns a new UUID.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderName))
		if !valid(id) {
			id = uuid.NewString()
		}
		c.Set(ContextKey, id)
		c.Request.Header.Set(HeaderName, id)
		c.Writer.Header().Set(HeaderName, id)
		c.Next()
	}
}

// FromContext returns the request ID assigned by Middleware.
func FromContext(c *gin.Context) string {
	return c.GetString(ContextKey)
}

func valid(id string) bool {
	if id == "" || len(id) > maxLength {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
