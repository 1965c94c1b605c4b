package libqnet

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects enumeration counters in its own prometheus registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	candidates   prometheus.Counter
	rejected     prometheus.Counter
	canonical    *prometheus.GaugeVec
	depthSeconds *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goqnet_candidates_total",
			Help: "Candidate networks produced by expansion.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goqnet_run_rejected_total",
			Help: "Extensions dropped for exceeding the identical-gate run limit.",
		}),
		canonical: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goqnet_canonical_networks",
			Help: "Canonical networks accepted at each depth.",
		}, []string{"depth"}),
		depthSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goqnet_depth_seconds",
			Help: "Wall time spent computing each depth.",
		}, []string{"depth"}),
	}
	m.Registry.MustRegister(m.candidates, m.rejected, m.canonical, m.depthSeconds)
	return m
}

func (m *Metrics) observeDepth(depth, candidates, rejected, canonical int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := strconv.Itoa(depth)
	m.candidates.Add(float64(candidates))
	m.rejected.Add(float64(rejected))
	m.canonical.WithLabelValues(label).Set(float64(canonical))
	m.depthSeconds.WithLabelValues(label).Set(elapsed.Seconds())
}

func (m *Metrics) observeCanonical(depth, canonical int) {
	if m == nil {
		return
	}
	m.canonical.WithLabelValues(strconv.Itoa(depth)).Set(float64(canonical))
}

// WriteTextfile writes the current metric values in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(pathname string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(pathname, m.Registry)
}
