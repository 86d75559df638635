package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/compozy/gantt/engine/infra/server/router"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.opentelemetry.io/otel/metric"
)

// Manager applies a per-client-IP limit. Counters are shared through Redis when a
// client is given and kept in process memory otherwise.
type Manager struct {
	config  *Config
	limiter *limiter.Limiter
	metrics *blockMetrics
}

func NewManager(cfg *Config, client *redis.Client) (*Manager, error) {
	return NewManagerWithMetrics(context.Background(), cfg, client, nil)
}

func NewManagerWithMetrics(
	ctx context.Context,
	cfg *Config,
	client *redis.Client,
	meter metric.Meter,
) (*Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := newStore(cfg, client)
	if err != nil {
		return nil, err
	}
	metrics, err := newBlockMetrics(meter)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to initialize rate limit metrics", "error", err)
	}
	return &Manager{
		config:  cfg,
		limiter: limiter.New(store, cfg.Rate.ToLimiterRate()),
		metrics: metrics,
	}, nil
}

func newStore(cfg *Config, client *redis.Client) (limiter.Store, error) {
	options := limiter.StoreOptions{
		Prefix:   cfg.Prefix,
		MaxRetry: cfg.MaxRetry,
	}
	if client == nil {
		return memory.NewStoreWithOptions(options), nil
	}
	store, err := sredis.NewStoreWithOptions(client, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return store, nil
}

// Middleware returns the gin handler enforcing the limit.
func (m *Manager) Middleware() gin.HandlerFunc {
	limit := mgin.NewMiddleware(
		m.limiter,
		mgin.WithLimitReachedHandler(m.limitReached),
		mgin.WithErrorHandler(m.storeError),
		mgin.WithKeyGetter(func(c *gin.Context) string { return c.ClientIP() }),
		mgin.WithExcludedKey(m.excludedIP),
	)
	return func(c *gin.Context) {
		if m.excludedPath(c.Request.URL.Path) {
			c.Next()
			return
		}
		limit(c)
	}
}

func (m *Manager) limitReached(c *gin.Context) {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	m.metrics.incrementBlocked(c.Request.Context(), route)
	router.RespondProblemWithCode(c, http.StatusTooManyRequests, router.ErrRateLimitCode, "rate limit exceeded")
}

func (m *Manager) storeError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("Rate limiter store failed", "error", err)
	c.Next()
}

func (m *Manager) excludedPath(path string) bool {
	for _, excluded := range m.config.ExcludedPaths {
		if path == excluded || strings.HasPrefix(path, strings.TrimSuffix(excluded, "/")+"/") {
			return true
		}
	}
	return false
}

func (m *Manager) excludedIP(key string) bool {
	return slices.Contains(m.config.ExcludedIPs, key)
}
