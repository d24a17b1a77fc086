package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// RepositoryMetrics содержит метрики операций хранилища заказов.
type RepositoryMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      prometheus.Histogram
}

// NewRepositoryMetrics регистрирует метрики в глобальном registry Prometheus.
func NewRepositoryMetrics() *RepositoryMetrics {
	return NewRepositoryMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewRepositoryMetricsWithRegisterer регистрирует метрики в переданном registry.
func NewRepositoryMetricsWithRegisterer(registerer prometheus.Registerer) *RepositoryMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &RepositoryMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orders_repository_operations_total",
			Help: "Total number of order repository operations grouped by operation and result",
		}, []string{"operation", "result"}),
		duration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "orders_repository_operation_duration_seconds",
			Help:    "Duration of order repository operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		items: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orders_repository_items_per_order",
			Help:    "Number of line items per written order",
			Buckets: prometheus.LinearBuckets(1, 5, 10),
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation учитывает результат и длительность одной операции.
func (m *RepositoryMetrics) RecordOperation(operation, result string, duration time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordItems записывает размер набора позиций сохранённого заказа.
func (m *RepositoryMetrics) RecordItems(count int) {
	m.items.Observe(float64(count))
}
