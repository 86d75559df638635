package uc

import (
	"context"
	"fmt"

	"github.com/compozy/gantt/engine/task"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts loader output. A nil *Metrics records nothing.
type Metrics struct {
	recordsLoaded metric.Int64Counter
	rowsSkipped   metric.Int64Counter
}

// NewMetrics registers the loader instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		return nil, nil
	}
	loaded, err := meter.Int64Counter(
		"records_loaded",
		metric.WithDescription("Total task records emitted by the CSV loader"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create records_loaded counter: %w", err)
	}
	skipped, err := meter.Int64Counter(
		"rows_skipped",
		metric.WithDescription("Total CSV rows dropped because a date could not be parsed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows_skipped counter: %w", err)
	}
	return &Metrics{recordsLoaded: loaded, rowsSkipped: skipped}, nil
}

func (m *Metrics) recordLoaded(ctx context.Context, count int) {
	if m == nil || count == 0 {
		return
	}
	m.recordsLoaded.Add(ctx, int64(count))
}

func (m *Metrics) recordSkipped(ctx context.Context, reason task.SkipReason) {
	if m == nil {
		return
	}
	m.rowsSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(reason))))
}
