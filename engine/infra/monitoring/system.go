package monitoring

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/compozy/gantt/pkg/logger"
	"github.com/compozy/gantt/pkg/version"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type systemMetrics struct {
	uptimeRegistration metric.Registration
	startTime          time.Time
}

func newSystemMetrics(ctx context.Context, meter metric.Meter) *systemMetrics {
	log := logger.FromContext(ctx)
	sm := &systemMetrics{startTime: time.Now()}
	buildInfo, err := meter.Float64Gauge(
		"gantt_build_info",
		metric.WithDescription("Build information (value=1)"),
	)
	if err != nil {
		log.Error("Failed to create build info gauge", "error", err)
	} else {
		ver, commit, goVersion := getBuildInfo()
		buildInfo.Record(ctx, 1, metric.WithAttributes(
			attribute.String("version", ver),
			attribute.String("commit_hash", commit),
			attribute.String("go_version", goVersion),
		))
	}
	uptime, err := meter.Float64ObservableGauge(
		"gantt_uptime_seconds",
		metric.WithDescription("Service uptime in seconds"),
	)
	if err != nil {
		log.Error("Failed to create uptime gauge", "error", err)
		return sm
	}
	sm.uptimeRegistration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveFloat64(uptime, time.Since(sm.startTime).Seconds())
		return nil
	}, uptime)
	if err != nil {
		log.Error("Failed to register uptime callback", "error", err)
	}
	return sm
}

func (sm *systemMetrics) close(ctx context.Context) {
	if sm == nil || sm.uptimeRegistration == nil {
		return
	}
	if err := sm.uptimeRegistration.Unregister(); err != nil {
		logger.FromContext(ctx).Error("Failed to unregister uptime callback", "error", err)
	}
	sm.uptimeRegistration = nil
}

// getBuildInfo prefers ldflags values and falls back to the embedded module info.
func getBuildInfo() (ver, commit, goVersion string) {
	info := version.Get()
	ver = info.Version
	commit = info.CommitHash
	if bi, ok := debug.ReadBuildInfo(); ok {
		if ver == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			ver = bi.Main.Version
		}
		if commit == "unknown" {
			for _, setting := range bi.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}
	return ver, commit, runtime.Version()
}
