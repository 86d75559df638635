package ratelimit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type blockMetrics struct {
	blocksTotal metric.Int64Counter
}

func newBlockMetrics(meter metric.Meter) (*blockMetrics, error) {
	if meter == nil {
		return nil, nil
	}
	counter, err := meter.Int64Counter(
		"rate_limit_blocks_total",
		metric.WithDescription("Total number of requests blocked by rate limiting"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit counter: %w", err)
	}
	return &blockMetrics{blocksTotal: counter}, nil
}

func (m *blockMetrics) incrementBlocked(ctx context.Context, route string) {
	if m == nil {
		return
	}
	m.blocksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}
