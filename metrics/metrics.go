// Package metrics counts what a ynamazon run did. A run is a short lived CLI
// invocation, so metrics are exported to a node exporter textfile rather than
// served.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "ynamazon_"

// Metrics bundles ynamazon metrics.
type Metrics struct {
	Registry *prometheus.Registry

	Fetches             *prometheus.CounterVec
	CacheLookups        *prometheus.CounterVec
	JoinedRecords       prometheus.Counter
	DroppedTransactions prometheus.Counter
	MemoUpdates         *prometheus.CounterVec
}

// New constructs metrics and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetches_total",
				Help: "Total remote fetches by kind and result",
			},
			[]string{"kind", "result"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cache_lookups_total",
				Help: "Total cache lookups by function and result",
			},
			[]string{"name", "result"},
		),
		JoinedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "joined_records_total",
			Help: "Total transactions joined with their order",
		}),
		DroppedTransactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "dropped_transactions_total",
			Help: "Total transactions dropped because their order was not fetched",
		}),
		MemoUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "memo_updates_total",
				Help: "Total YNAB memo updates by result",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.Fetches,
		m.CacheLookups,
		m.JoinedRecords,
		m.DroppedTransactions,
		m.MemoUpdates,
	)
	return m
}

// ObserveCacheLookup counts a cache lookup of the memoized function name.
func (m *Metrics) ObserveCacheLookup(name, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(name, result).Inc()
}

// ObserveFetch counts a remote fetch of kind ("orders", "transactions", ...).
func (m *Metrics) ObserveFetch(kind string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Fetches.WithLabelValues(kind, result).Inc()
}

// ObserveJoin counts the outcome of a join.
func (m *Metrics) ObserveJoin(joined, dropped int) {
	if m == nil {
		return
	}
	m.JoinedRecords.Add(float64(joined))
	m.DroppedTransactions.Add(float64(dropped))
}

// ObserveMemoUpdate counts a YNAB update attempt.
func (m *Metrics) ObserveMemoUpdate(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.MemoUpdates.WithLabelValues(result).Inc()
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("cannot write metrics to %s: %w", path, err)
	}
	return nil
}
