package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts fetch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Fetches *prometheus.CounterVec
	Latency prometheus.Histogram
	Stale   prometheus.Counter
}

// NewMetrics creates the fetch collectors and registers them with reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netstat",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Network status fetches by outcome.",
		}, []string{"outcome"}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netstat",
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Duration of network status fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netstat",
			Subsystem: "fetch",
			Name:      "superseded_total",
			Help:      "Fetch results dropped because a newer fetch had started.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Fetches, m.Latency, m.Stale} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Fetches.WithLabelValues(outcome).Inc()
	m.Latency.Observe(elapsed.Seconds())
}

func (m *Metrics) stale() {
	if m == nil {
		return
	}
	m.Stale.Inc()
}
