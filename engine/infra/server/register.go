package server

import (
	"context"

	"github.com/compozy/gantt/engine/infra/server/routes"
	taskrouter "github.com/compozy/gantt/engine/task/router"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// RegisterRoutes mounts the API, the health probe and the static bundle.
func RegisterRoutes(ctx context.Context, r *gin.Engine, fs afero.Fs, staticDir string) {
	r.GET(routes.Health(), healthHandler)
	apiBase := r.Group(routes.Base())
	taskrouter.Register(apiBase)
	mountStatic(ctx, r, fs, staticDir)
}
