package dashboard

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/Tiliavir/hdash/internal/dashboard"

// instruments records fetch and mutation outcomes on the global meter
// provider. Without an installed SDK every call is a no-op.
type instruments struct {
	cycles    metric.Int64Counter
	mutations metric.Int64Counter
	skipped   metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	cycles, err := meter.Int64Counter(
		"hdash_fetch_cycles_total",
		metric.WithDescription("Aggregate fetch cycles by outcome"),
	)
	if err != nil {
		cycles, _ = fallback.Int64Counter("hdash_fetch_cycles_total")
	}
	mutations, err := meter.Int64Counter(
		"hdash_mutations_total",
		metric.WithDescription("Write operations by operation and outcome"),
	)
	if err != nil {
		mutations, _ = fallback.Int64Counter("hdash_mutations_total")
	}
	skipped, err := meter.Int64Counter(
		"hdash_poll_skipped_total",
		metric.WithDescription("Poll ticks skipped because a cycle was still running"),
	)
	if err != nil {
		skipped, _ = fallback.Int64Counter("hdash_poll_skipped_total")
	}
	return &instruments{cycles: cycles, mutations: mutations, skipped: skipped}
}

func (m *instruments) cycle(ctx context.Context, outcome string) {
	m.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *instruments) mutation(ctx context.Context, op, outcome string) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

func (m *instruments) skip(ctx context.Context) {
	m.skipped.Add(ctx, 1)
}
