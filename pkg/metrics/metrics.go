// Package metrics exports transaction log events as Prometheus metrics.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mash-protocol/mash-regs/pkg/log"
)

// Collector holds the register access metrics. It implements log.Logger so
// it can be attached to a registry directly or through a log.MultiLogger.
type Collector struct {
	Transactions  *prometheus.CounterVec
	Bytes         *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	PassDuration  *prometheus.HistogramVec
	Registrations *prometheus.GaugeVec
}

// NewCollector creates and registers all metrics with the provided registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mash_regs_transactions_total",
		Help: "Total block transactions issued to the device",
	}, []string{"direction"})

	bytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mash_regs_bytes_total",
		Help: "Total bytes transferred in block transactions",
	}, []string{"direction"})

	errors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mash_regs_errors_total",
		Help: "Total register access errors by stage",
	}, []string{"stage"})

	passDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mash_regs_pass_duration_seconds",
		Help:    "Duration of complete read and write passes",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"direction"})

	registrations := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mash_regs_registrations",
		Help: "Registered addresses in the most recent pass",
	}, []string{"direction"})

	reg.MustRegister(transactions, bytes, errors, passDuration, registrations)

	return &Collector{
		Transactions:  transactions,
		Bytes:         bytes,
		Errors:        errors,
		PassDuration:  passDuration,
		Registrations: registrations,
	}
}

// Log updates the metrics from a transaction event.
func (c *Collector) Log(event log.Event) {
	dir := strings.ToLower(event.Direction.String())

	switch event.Category {
	case log.CategoryBlock:
		if event.Block == nil {
			return
		}
		c.Transactions.WithLabelValues(dir).Inc()
		c.Bytes.WithLabelValues(dir).Add(float64(event.Block.Length))
	case log.CategoryPass:
		if event.Pass == nil {
			return
		}
		c.PassDuration.WithLabelValues(dir).Observe(event.Pass.Duration.Seconds())
		c.Registrations.WithLabelValues(dir).Set(float64(event.Pass.Registrations))
	case log.CategoryError:
		if event.Error == nil {
			return
		}
		c.Errors.WithLabelValues(strings.ToLower(event.Error.Stage.String())).Inc()
	}
}

// Compile-time interface satisfaction check.
var _ log.Logger = (*Collector)(nil)
