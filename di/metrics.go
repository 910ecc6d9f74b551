package di

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/svcreg/logger"
)

// Resolution results reported on di.resolve.total.
const (
	resultFound    = "found"
	resultNotFound = "not_found"
)

// metrics holds the registry's instruments.
type metrics struct {
	resolveTotal    metric.Int64Counter
	factoryTotal    metric.Int64Counter
	factoryDuration metric.Float64Histogram
}

func newMetrics(meter metric.Meter, log *logger.Logger) *metrics {
	m, err := createMetrics(meter)
	if err != nil {
		log.Warn("registry metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		m, _ = createMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func createMetrics(meter metric.Meter) (*metrics, error) {
	resolveTotal, err := meter.Int64Counter("di.resolve.total",
		metric.WithDescription("Total number of service resolutions"),
	)
	if err != nil {
		return nil, err
	}

	factoryTotal, err := meter.Int64Counter("di.factory.total",
		metric.WithDescription("Total number of factory invocations"),
	)
	if err != nil {
		return nil, err
	}

	factoryDuration, err := meter.Float64Histogram("di.factory.duration",
		metric.WithDescription("Duration of factory invocations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{
		resolveTotal:    resolveTotal,
		factoryTotal:    factoryTotal,
		factoryDuration: factoryDuration,
	}, nil
}

func (m *metrics) recordResolve(ctx context.Context, registryID, result string) {
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("di.registry_id", registryID),
		attribute.String("di.result", result),
	))
}

func (m *metrics) recordFactory(ctx context.Context, key string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("di.key", key))
	m.factoryTotal.Add(ctx, 1, attrs)
	m.factoryDuration.Record(ctx, d.Seconds(), attrs)
}
