package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitForTests()
}

func TestNewMonitoringService(t *testing.T) {
	t.Run("Should use a disabled default config when nil is provided", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), nil)
		require.NoError(t, err)
		assert.False(t, service.IsInitialized())
		assert.Equal(t, "/metrics", service.Path())
		assert.NotNil(t, service.Meter())
	})

	t.Run("Should fail with an invalid path", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: ""})
		require.Error(t, err)
		assert.Nil(t, service)
		assert.Contains(t, err.Error(), "monitoring path cannot be empty")
	})

	t.Run("Should initialize the Prometheus exporter when enabled", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = service.Shutdown(t.Context()) })
		assert.True(t, service.IsInitialized())
		assert.NotNil(t, service.exporter)
		assert.NotNil(t, service.registry)
	})

	t.Run("Should fall back to a no-op service on invalid config", func(t *testing.T) {
		service := NewMonitoringServiceWithFallback(t.Context(), &Config{Enabled: true, Path: "/api/metrics"})
		require.NotNil(t, service)
		assert.False(t, service.IsInitialized())
		assert.Error(t, service.InitializationError())
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		path string
		want string
	}{
		{"Should require a leading slash", "metrics", "must start with '/'"},
		{"Should reject API paths", "/api/metrics", "cannot be under /api/"},
		{"Should reject query strings", "/metrics?x=1", "cannot contain query parameters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Config{Enabled: true, Path: tc.path}).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
	t.Run("Should map application config", func(t *testing.T) {
		cfg := FromAppConfig(&config.MonitoringConfig{Enabled: true, Path: "/prom"})
		assert.Equal(t, &Config{Enabled: true, Path: "/prom"}, cfg)
		assert.Equal(t, DefaultConfig(), FromAppConfig(nil))
	})
}

func TestService_ExporterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Should expose HTTP and build metrics", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), &Config{Enabled: true, Path: "/metrics"})
		require.NoError(t, err)
		t.Cleanup(func() { _ = service.Shutdown(t.Context()) })
		router := gin.New()
		router.Use(service.GinMiddleware())
		router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
		router.GET(service.Path(), gin.WrapH(service.ExporterHandler()))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		body, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "gantt_http_requests_total")
		assert.Contains(t, string(body), "gantt_build_info")
		assert.Contains(t, string(body), "gantt_uptime_seconds")
	})

	t.Run("Should return 503 when disabled", func(t *testing.T) {
		service, err := NewMonitoringService(t.Context(), DefaultConfig())
		require.NoError(t, err)
		w := httptest.NewRecorder()
		service.ExporterHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
