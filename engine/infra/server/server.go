package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/compozy/gantt/engine/infra/cache"
	"github.com/compozy/gantt/engine/infra/monitoring"
	"github.com/compozy/gantt/engine/infra/server/appstate"
	taskuc "github.com/compozy/gantt/engine/task/uc"
	"github.com/compozy/gantt/pkg/config"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

const (
	monitoringShutdownTimeout = 5 * time.Second
	defaultShutdownTimeout    = 5 * time.Second
	hostAny                   = "0.0.0.0"
	hostLoopback              = "127.0.0.1"
)

type Server struct {
	serverConfig *config.ServerConfig
	fs           afero.Fs
	router       *gin.Engine
	monitoring   *monitoring.Service
	redis        *cache.Redis
	ctx          context.Context
	cancel       context.CancelFunc
	httpServer   *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithFS replaces the filesystem used for the CSV source and the static bundle.
func WithFS(fs afero.Fs) Option {
	return func(s *Server) {
		s.fs = fs
	}
}

func NewServer(ctx context.Context, opts ...Option) (*Server, error) {
	serverCtx, cancel := context.WithCancel(ctx)
	cfg := config.FromContext(serverCtx)
	if cfg == nil {
		cancel()
		return nil, fmt.Errorf("configuration missing from context; attach a manager with config.ContextWithManager")
	}
	s := &Server{
		serverConfig: &cfg.Server,
		fs:           afero.NewOsFs(),
		ctx:          serverCtx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the router on first use and returns it.
func (s *Server) Handler() (http.Handler, error) {
	if s.router != nil {
		return s.router, nil
	}
	if err := s.setup(); err != nil {
		return nil, err
	}
	return s.router, nil
}

func (s *Server) setup() error {
	cfg := config.FromContext(s.ctx)
	s.monitoring = monitoring.NewMonitoringServiceWithFallback(s.ctx, monitoring.FromAppConfig(&cfg.Monitoring))
	var loaderMetrics *taskuc.Metrics
	if s.monitoring.IsInitialized() {
		metrics, err := taskuc.NewMetrics(s.monitoring.Meter())
		if err != nil {
			logger.FromContext(s.ctx).Error("Failed to initialize loader metrics", "error", err)
		}
		loaderMetrics = metrics
	}
	state, err := appstate.NewState(s.fs, loaderMetrics)
	if err != nil {
		return fmt.Errorf("failed to create app state: %w", err)
	}
	if err := s.buildRouter(state); err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	return nil
}

// Run serves until SIGINT, SIGTERM or cancellation of the parent context.
func (s *Server) Run() error {
	defer s.cancel()
	if _, err := s.Handler(); err != nil {
		return err
	}
	defer s.shutdownMonitoring()
	defer s.closeRedis()
	s.httpServer = s.createHTTPServer()
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logStartup()
	return s.handleGracefulShutdown(errCh)
}

func (s *Server) createHTTPServer() *http.Server {
	addr := net.JoinHostPort(s.serverConfig.Host, strconv.Itoa(s.serverConfig.Port))
	return &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.serverConfig.ReadTimeout,
		WriteTimeout: s.serverConfig.WriteTimeout,
		IdleTimeout:  s.serverConfig.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return s.ctx
		},
	}
}

func (s *Server) handleGracefulShutdown(errCh <-chan error) error {
	log := logger.FromContext(s.ctx)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Debug("Received shutdown signal, initiating graceful shutdown", "signal", sig.String())
	case <-s.ctx.Done():
		log.Debug("Context canceled, initiating graceful shutdown")
	}
	timeout := s.serverConfig.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), timeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) shutdownMonitoring() {
	if s.monitoring == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), monitoringShutdownTimeout)
	defer cancel()
	if err := s.monitoring.Shutdown(ctx); err != nil {
		logger.FromContext(s.ctx).Error("Failed to shutdown monitoring", "error", err)
	}
}

func (s *Server) closeRedis() {
	if s.redis == nil {
		return
	}
	if err := s.redis.Close(); err != nil {
		logger.FromContext(s.ctx).Error("Failed to close rate limit store", "error", err)
	}
}

// Shutdown stops a running server.
func (s *Server) Shutdown() {
	s.cancel()
}

func (s *Server) logStartup() {
	cfg := config.FromContext(s.ctx)
	url := fmt.Sprintf("http://%s", net.JoinHostPort(friendlyHost(s.serverConfig.Host), strconv.Itoa(s.serverConfig.Port)))
	fields := []any{"url", url, "data", cfg.Data.Path}
	if cfg.Monitoring.Enabled {
		fields = append(fields, "metrics", url+cfg.Monitoring.Path)
	}
	logger.FromContext(s.ctx).Info("Gantt API listening", fields...)
}

func friendlyHost(h string) string {
	if h == hostAny || h == "::" || h == "" {
		return hostLoopback
	}
	return h
}
