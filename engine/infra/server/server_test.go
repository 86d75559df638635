package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func init() {
	logger.InitForTests()
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T, fs afero.Fs, mutate func(*config.Config)) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Path = "data/data.csv"
	cfg.Server.StaticDir = "frontend/dist"
	if mutate != nil {
		mutate(cfg)
	}
	manager := config.NewManager(nil)
	manager.Set(cfg)
	ctx := config.ContextWithManager(context.Background(), manager)
	srv, err := NewServer(ctx, WithFS(fs))
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Shutdown()
		srv.shutdownMonitoring()
		srv.closeRedis()
	})
	h, err := srv.Handler()
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, http.NoBody))
	return w
}

func writeFile(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
}

func TestServer_Routes(t *testing.T) {
	t.Run("Should report health", func(t *testing.T) {
		w := do(newTestHandler(t, afero.NewMemMapFs(), nil), http.MethodGet, "/healthz")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Should serve tasks from the configured file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "data/data.csv", "Tasks,Start Date,Completion,Color\nShip,2024-06-01,2024-06-03,black\n")
		w := do(newTestHandler(t, fs, nil), http.MethodGet, "/api/tasks")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Ship", gjson.Get(w.Body.String(), "0.name").String())
		assert.Equal(t, "#000000", gjson.Get(w.Body.String(), "0.color").String())
	})

	t.Run("Should return a problem when the source is missing", func(t *testing.T) {
		w := do(newTestHandler(t, afero.NewMemMapFs(), nil), http.MethodGet, "/api/tasks")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "SOURCE_NOT_FOUND", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("Should return JSON 404 without a static bundle", func(t *testing.T) {
		w := do(newTestHandler(t, afero.NewMemMapFs(), nil), http.MethodGet, "/dashboard")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", gjson.Get(w.Body.String(), "code").String())
	})
}

func TestServer_StaticBundle(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "frontend/dist/index.html", "<html>app</html>")
	writeFile(t, fs, "frontend/dist/assets/app.js", "console.log(1)")
	h := newTestHandler(t, fs, nil)

	t.Run("Should serve the index at the root", func(t *testing.T) {
		w := do(h, http.MethodGet, "/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>app</html>", w.Body.String())
	})

	t.Run("Should serve existing assets", func(t *testing.T) {
		w := do(h, http.MethodGet, "/assets/app.js")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "console.log(1)", w.Body.String())
	})

	t.Run("Should fall back to the index for client routes", func(t *testing.T) {
		w := do(h, http.MethodGet, "/timeline/42")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>app</html>", w.Body.String())
	})

	t.Run("Should not escape the bundle directory", func(t *testing.T) {
		writeFile(t, fs, "secret.txt", "nope")
		w := do(h, http.MethodGet, "/../../secret.txt")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "<html>app</html>", w.Body.String())
	})

	t.Run("Should keep unknown API paths as JSON 404", func(t *testing.T) {
		w := do(h, http.MethodGet, "/api/unknown")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	})

	t.Run("Should not serve the bundle for other methods", func(t *testing.T) {
		w := do(h, http.MethodPost, "/timeline")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_Monitoring(t *testing.T) {
	t.Run("Should expose metrics when enabled", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "data/data.csv", "Tasks,Start Date,Completion\nA,2024-01-01,2024-01-02\nB,bad,2024-01-02\n")
		h := newTestHandler(t, fs, func(cfg *config.Config) {
			cfg.Monitoring.Enabled = true
		})
		require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/tasks").Code)
		w := do(h, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "records_loaded")
		assert.Contains(t, body, "rows_skipped")
		assert.Contains(t, body, "gantt_http_requests_total")
	})

	t.Run("Should not mount metrics when disabled", func(t *testing.T) {
		w := do(newTestHandler(t, afero.NewMemMapFs(), nil), http.MethodGet, "/metrics")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_RateLimit(t *testing.T) {
	t.Run("Should limit API requests but not health checks", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "data/data.csv", "Tasks,Start Date,Completion\n")
		h := newTestHandler(t, fs, func(cfg *config.Config) {
			cfg.RateLimit.Enabled = true
			cfg.RateLimit.Limit = 1
		})
		require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/tasks").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/tasks").Code)
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz").Code)
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz").Code)
	})
}

func TestServer_RateLimitRedis(t *testing.T) {
	t.Run("Should keep counters in Redis when an address is configured", func(t *testing.T) {
		mr := miniredis.RunT(t)
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "data/data.csv", "Tasks,Start Date,Completion\n")
		h := newTestHandler(t, fs, func(cfg *config.Config) {
			cfg.RateLimit.Enabled = true
			cfg.RateLimit.Limit = 1
			cfg.RateLimit.RedisAddr = mr.Addr()
		})
		require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/tasks").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/tasks").Code)
		assert.NotEmpty(t, mr.Keys())
	})

	t.Run("Should fall back to memory when Redis is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "data/data.csv", "Tasks,Start Date,Completion\n")
		h := newTestHandler(t, fs, func(cfg *config.Config) {
			cfg.RateLimit.Enabled = true
			cfg.RateLimit.Limit = 1
			cfg.RateLimit.RedisAddr = addr
		})
		require.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/tasks").Code)
		assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/tasks").Code)
	})
}

func TestFriendlyHost(t *testing.T) {
	t.Run("Should map wildcard hosts to loopback", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1", friendlyHost("0.0.0.0"))
		assert.Equal(t, "127.0.0.1", friendlyHost(""))
		assert.Equal(t, "example.com", friendlyHost("example.com"))
	})
}
