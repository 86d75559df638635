package server

import (
	"github.com/compozy/gantt/engine/infra/cache"
	"github.com/compozy/gantt/engine/infra/server/appstate"
	lgmiddleware "github.com/compozy/gantt/engine/infra/server/middleware/logger"
	"github.com/compozy/gantt/engine/infra/server/middleware/ratelimit"
	"github.com/compozy/gantt/engine/infra/server/middleware/requestid"
	"github.com/compozy/gantt/engine/infra/server/routes"
	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func convertRateLimitConfig(cfg *config.Config) *ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.Rate = ratelimit.RateConfig{
		Limit:  cfg.RateLimit.Limit,
		Period: cfg.RateLimit.Period,
	}
	rl.ExcludedPaths = []string{routes.Health(), cfg.Monitoring.Path}
	return rl
}

// rateLimitClient connects the Redis store for shared counters.
// A failed connection falls back to in-memory counters.
func (s *Server) rateLimitClient(cfg *config.Config) *redis.Client {
	redisCfg := cache.FromRateLimitConfig(&cfg.RateLimit)
	if redisCfg == nil {
		return nil
	}
	conn, err := cache.NewRedis(s.ctx, redisCfg)
	if err != nil {
		logger.FromContext(s.ctx).Warn("Rate limiter falling back to in-memory counters", "error", err)
		return nil
	}
	s.redis = conn
	return conn.Client()
}

func (s *Server) buildRouter(state *appstate.State) error {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	cfg := config.FromContext(s.ctx)
	log := logger.FromContext(s.ctx)
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.Use(s.monitoring.GinMiddleware())
	}
	r.Use(lgmiddleware.Middleware(s.ctx))
	if cfg.RateLimit.Enabled {
		manager, err := ratelimit.NewManagerWithMetrics(
			s.ctx,
			convertRateLimitConfig(cfg),
			s.rateLimitClient(cfg),
			s.monitoring.Meter(),
		)
		if err != nil {
			log.Error("Failed to initialize rate limiting", "error", err)
		} else {
			r.Use(manager.Middleware())
			log.Info("Rate limiter initialized",
				"limit", cfg.RateLimit.Limit,
				"period", cfg.RateLimit.Period,
				"shared", s.redis != nil)
		}
	}
	r.Use(appstate.StateMiddleware(state))
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.GET(s.monitoring.Path(), gin.WrapH(s.monitoring.ExporterHandler()))
	}
	RegisterRoutes(s.ctx, r, state.FS, cfg.Server.StaticDir)
	s.router = r
	return nil
}
