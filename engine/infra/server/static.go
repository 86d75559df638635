package server

import (
	"context"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/compozy/gantt/engine/infra/server/router"
	"github.com/compozy/gantt/engine/infra/server/routes"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

const indexFile = "index.html"

// mountStatic installs the not-found handler. When dir holds an index.html,
// unmatched GET and HEAD requests outside the API are served from dir with
// index.html as the fallback document.
func mountStatic(ctx context.Context, r *gin.Engine, fs afero.Fs, dir string) {
	log := logger.FromContext(ctx)
	if !hasIndex(fs, dir) {
		log.Debug("Static bundle not found, skipping mount", "dir", dir)
		r.NoRoute(notFound)
		return
	}
	bundle := afero.NewBasePathFs(fs, dir)
	log.Info("Serving static bundle", "dir", dir)
	r.NoRoute(func(c *gin.Context) {
		if !servesStatic(c.Request) {
			notFound(c)
			return
		}
		name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
		if name == "" || !isFile(bundle, name) {
			name = indexFile
		}
		serveFile(c, bundle, name)
	})
}

func servesStatic(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return false
	}
	p := req.URL.Path
	return p != routes.Base() && !strings.HasPrefix(p, routes.Base()+"/")
}

func hasIndex(fs afero.Fs, dir string) bool {
	if dir == "" {
		return false
	}
	return isFile(fs, filepath.Join(dir, indexFile))
}

func isFile(fs afero.Fs, name string) bool {
	info, err := fs.Stat(name)
	return err == nil && !info.IsDir()
}

func serveFile(c *gin.Context, fs afero.Fs, name string) {
	file, err := fs.Open(name)
	if err != nil {
		notFound(c)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		notFound(c)
		return
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func notFound(c *gin.Context) {
	router.RespondProblemWithCode(c, http.StatusNotFound, router.ErrNotFoundCode, router.ErrMsgRouteNotFound)
}
