package middleware

import (
	"strconv"
	"time"

	"github.com/compozy/gantt/engine/infra/monitoring/metrics"
	"github.com/compozy/gantt/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpInstruments struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	requestsInFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) *httpInstruments {
	if meter == nil {
		return nil
	}
	requestsTotal, err := meter.Int64Counter(
		"gantt_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		logger.Error("Failed to create http requests total counter", "error", err)
		return nil
	}
	requestDuration, err := meter.Float64Histogram(
		"gantt_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.HTTPDurationBuckets...),
	)
	if err != nil {
		logger.Error("Failed to create http request duration histogram", "error", err)
		return nil
	}
	requestsInFlight, err := meter.Int64UpDownCounter(
		"gantt_http_requests_in_flight",
		metric.WithDescription("Currently active HTTP requests"),
	)
	if err != nil {
		logger.Error("Failed to create http requests in flight counter", "error", err)
		return nil
	}
	return &httpInstruments{
		requestsTotal:    requestsTotal,
		requestDuration:  requestDuration,
		requestsInFlight: requestsInFlight,
	}
}

// HTTPMetrics returns a Gin middleware that collects HTTP metrics
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	inst := newHTTPInstruments(meter)
	return func(c *gin.Context) {
		if inst == nil {
			c.Next()
			return
		}
		start := time.Now()
		inst.requestsInFlight.Add(c.Request.Context(), 1)
		defer inst.requestsInFlight.Add(c.Request.Context(), -1)
		c.Next()
		inst.record(c, start)
	}
}

func (inst *httpInstruments) record(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", c.Request.Method),
		attribute.String("path", path),
		attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
	)
	inst.requestsTotal.Add(c.Request.Context(), 1, attrs)
	inst.requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
}
