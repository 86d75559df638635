package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/compozy/gantt/engine/infra/server/middleware/requestid"
	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Middleware carries the server logger and configuration manager into each
// request context and logs the completed request.
func Middleware(ctx context.Context) gin.HandlerFunc {
	base := logger.FromContext(ctx)
	manager := config.ManagerFromContext(ctx)
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		log := base
		if id := requestid.FromContext(c); id != "" {
			log = log.With("request_id", id)
		}
		reqCtx := logger.ContextWithLogger(c.Request.Context(), log)
		reqCtx = config.ContextWithManager(reqCtx, manager)
		c.Request = c.Request.WithContext(reqCtx)
		c.Next()
		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status_code", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "error", errs)
		}
		if status >= http.StatusInternalServerError {
			log.Warn("Request completed", fields...)
			return
		}
		log.Info("Request completed", fields...)
	}
}
