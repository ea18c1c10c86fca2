package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records provider requests and sessions on its own registry.
type Metrics struct {
	Registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
	swept    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthguard_requests_total",
			Help: "Settled provider requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "healthguard_provider_latency_seconds",
			Help:    "Provider call latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"kind"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healthguard_requests_in_flight",
			Help: "Provider requests currently pending.",
		}),
		swept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "healthguard_sessions_swept_total",
			Help: "Sessions closed for inactivity.",
		}),
	}

	m.Registry.MustRegister(
		m.requests,
		m.latency,
		m.inFlight,
		m.swept,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterSessions exposes the live session count, read at scrape time.
func (m *Metrics) RegisterSessions(count func() int) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "healthguard_sessions_active",
		Help: "Sessions currently held in memory.",
	}, func() float64 { return float64(count()) }))
}

func (m *Metrics) RequestStarted(kind string) {
	m.inFlight.Inc()
}

func (m *Metrics) RequestSettled(kind, outcome string, latency time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(kind, outcome).Inc()
	m.latency.WithLabelValues(kind).Observe(latency.Seconds())
}

func (m *Metrics) SessionsSwept(n int) {
	m.swept.Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
