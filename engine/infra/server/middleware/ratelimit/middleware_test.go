package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func init() {
	logger.InitForTests()
}

func buildRouterForTest(t *testing.T, m *Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/t", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doReq(r *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if ip != "" {
		req.Header.Set("X-Real-IP", ip)
	}
	r.ServeHTTP(w, req)
	return w
}

func testConfig(limit int64, period time.Duration) *Config {
	cfg := DefaultConfig()
	cfg.Rate = RateConfig{Limit: limit, Period: period}
	cfg.Prefix = "test:ratelimit"
	return cfg
}

func TestManager_Middleware(t *testing.T) {
	t.Run("Should block the second request from the same IP", func(t *testing.T) {
		m, err := NewManager(testConfig(1, time.Second), nil)
		require.NoError(t, err)
		r := buildRouterForTest(t, m)
		require.Equal(t, http.StatusOK, doReq(r, "/t", "1.2.3.4").Code)
		res := doReq(r, "/t", "1.2.3.4")
		require.Equal(t, http.StatusTooManyRequests, res.Code)
		assert.Equal(t, "RATE_LIMITED", gjson.Get(res.Body.String(), "code").String())
		assert.Equal(t, http.StatusOK, doReq(r, "/t", "4.3.2.1").Code)
	})

	t.Run("Should refill after the period", func(t *testing.T) {
		m, err := NewManager(testConfig(1, 100*time.Millisecond), nil)
		require.NoError(t, err)
		r := buildRouterForTest(t, m)
		require.Equal(t, http.StatusOK, doReq(r, "/t", "5.6.7.8").Code)
		require.Equal(t, http.StatusTooManyRequests, doReq(r, "/t", "5.6.7.8").Code)
		time.Sleep(150 * time.Millisecond)
		require.Equal(t, http.StatusOK, doReq(r, "/t", "5.6.7.8").Code)
	})

	t.Run("Should set rate limit headers", func(t *testing.T) {
		m, err := NewManager(testConfig(2, time.Minute), nil)
		require.NoError(t, err)
		res := doReq(buildRouterForTest(t, m), "/t", "9.9.9.9")
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "2", res.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", res.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, res.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("Should skip excluded paths and IPs", func(t *testing.T) {
		cfg := testConfig(1, time.Minute)
		cfg.ExcludedIPs = []string{"10.0.0.1"}
		m, err := NewManager(cfg, nil)
		require.NoError(t, err)
		r := buildRouterForTest(t, m)
		for range 3 {
			assert.Equal(t, http.StatusOK, doReq(r, "/healthz", "2.2.2.2").Code)
			assert.Equal(t, http.StatusOK, doReq(r, "/t", "10.0.0.1").Code)
		}
	})

	t.Run("Should share counters through Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		first, err := NewManager(testConfig(1, time.Minute), client)
		require.NoError(t, err)
		second, err := NewManager(testConfig(1, time.Minute), client)
		require.NoError(t, err)

		require.Equal(t, http.StatusOK, doReq(buildRouterForTest(t, first), "/t", "5.5.5.5").Code)
		res := doReq(buildRouterForTest(t, second), "/t", "5.5.5.5")
		assert.Equal(t, http.StatusTooManyRequests, res.Code)
		assert.NotEmpty(t, mr.Keys())
	})

	t.Run("Should count blocked requests", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		m, err := NewManagerWithMetrics(t.Context(), testConfig(1, time.Minute), nil, provider.Meter("test"))
		require.NoError(t, err)
		r := buildRouterForTest(t, m)
		doReq(r, "/t", "3.3.3.3")
		doReq(r, "/t", "3.3.3.3")

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))
		var blocked int64
		for _, sm := range rm.ScopeMetrics {
			for _, metric := range sm.Metrics {
				if metric.Name != "rate_limit_blocks_total" {
					continue
				}
				sum, ok := metric.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					blocked += dp.Value
				}
			}
		}
		assert.Equal(t, int64(1), blocked)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Should reject a non-positive limit", func(t *testing.T) {
		_, err := NewManager(testConfig(0, time.Minute), nil)
		assert.ErrorContains(t, err, "rate limit must be positive")
	})
	t.Run("Should reject a non-positive period", func(t *testing.T) {
		_, err := NewManager(testConfig(1, 0), nil)
		assert.ErrorContains(t, err, "period must be positive")
	})
}
