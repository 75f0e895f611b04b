package server

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/tomz197/slipstream/internal/loop/server"

type hubMetrics struct {
	players metric.Int64ObservableGauge
	runs    metric.Int64Counter
	records metric.Int64Counter
}

// newHubMetrics registers the hub instruments on provider, or on the global
// provider when nil (a no-op unless the process configured one).
func newHubMetrics(provider metric.MeterProvider, s *Server) (hubMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	m := provider.Meter(instrumentationName)

	var (
		hm  hubMetrics
		err error
	)
	hm.players, err = m.Int64ObservableGauge(
		"hub.players",
		metric.WithDescription("Connected sessions"),
	)
	if err != nil {
		return hubMetrics{}, fmt.Errorf("creating players gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(hm.players, int64(s.Players()))
		return nil
	}, hm.players)
	if err != nil {
		return hubMetrics{}, fmt.Errorf("registering players callback: %w", err)
	}

	hm.runs, err = m.Int64Counter(
		"hub.runs.finished",
		metric.WithDescription("Runs submitted to the leaderboard"),
	)
	if err != nil {
		return hubMetrics{}, fmt.Errorf("creating runs counter: %w", err)
	}
	hm.records, err = m.Int64Counter(
		"hub.records",
		metric.WithDescription("Runs that took first place"),
	)
	if err != nil {
		return hubMetrics{}, fmt.Errorf("creating records counter: %w", err)
	}
	return hm, nil
}

func noopHubMetrics() hubMetrics {
	m := noop.NewMeterProvider().Meter(instrumentationName)
	players, _ := m.Int64ObservableGauge("hub.players")
	runs, _ := m.Int64Counter("hub.runs.finished")
	records, _ := m.Int64Counter("hub.records")
	return hubMetrics{players: players, runs: runs, records: records}
}

func (hm hubMetrics) runFinished(user string, record bool) {
	attrs := metric.WithAttributes(attribute.Bool("record", record))
	hm.runs.Add(context.Background(), 1, attrs)
	if record {
		hm.records.Add(context.Background(), 1, metric.WithAttributes(attribute.String("user", user)))
	}
}
