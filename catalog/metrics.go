package catalog

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "superblob"

const (
	fetchHit   = "hit"
	fetchMiss  = "miss"
	fetchError = "error"
)

type metrics struct {
	rowsInserted prometheus.Counter
	fetches      *prometheus.CounterVec
	scannedRows  prometheus.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		rowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "catalog",
			Name:      "rows_inserted_total",
			Help:      "Number of rows appended to the catalog.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "catalog",
			Name:      "fetch_total",
			Help:      "Number of FetchMeta calls by outcome.",
		}, []string{"result"}),
		scannedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "catalog",
			Name:      "fetch_scanned_rows",
			Help:      "Rows visited by a single FetchMeta scan.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// register adds the collectors to reg. Collectors already registered by
// another catalog on the same registerer are shared.
func (m *metrics) register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}

	var err error
	if m.rowsInserted, err = registerOrExisting(reg, m.rowsInserted); err != nil {
		return err
	}
	if m.fetches, err = registerOrExisting(reg, m.fetches); err != nil {
		return err
	}
	if m.scannedRows, err = registerOrExisting(reg, m.scannedRows); err != nil {
		return err
	}

	return nil
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return c, err
}

func (m *metrics) observeFetch(result string, scanned int) {
	m.fetches.WithLabelValues(result).Inc()
	if result != fetchError {
		m.scannedRows.Observe(float64(scanned))
	}
}
