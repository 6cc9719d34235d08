package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder against a private Prometheus
// registry, exposed over HTTP via Handler.
type PrometheusRecorder struct {
	registry *prom.Registry

	runsTotal    *prom.CounterVec
	runDuration  prom.Histogram
	registrySize prom.Gauge
	changesTotal *prom.CounterVec
	lastRunUnix  prom.Gauge
}

// NewPrometheusRecorder builds a recorder with all collectors registered.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prom.NewRegistry()

	r := &PrometheusRecorder{
		registry: registry,
		runsTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "regbuilder_runs_total",
			Help: "Completed generation runs by result.",
		}, []string{"result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "regbuilder_run_duration_seconds",
			Help:    "Wall time of generation runs.",
			Buckets: prom.DefBuckets,
		}),
		registrySize: prom.NewGauge(prom.GaugeOpts{
			Name: "regbuilder_registry_entries",
			Help: "Entry count of the last published registry.",
		}),
		changesTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "regbuilder_changes_total",
			Help: "Classified registry changes across runs.",
		}, []string{"kind"}),
		lastRunUnix: prom.NewGauge(prom.GaugeOpts{
			Name: "regbuilder_last_run_timestamp_seconds",
			Help: "Unix time of the last generation run.",
		}),
	}

	registry.MustRegister(r.runsTotal, r.runDuration, r.registrySize, r.changesTotal, r.lastRunUnix)
	return r
}

// RecordRun implements Recorder.
func (r *PrometheusRecorder) RecordRun(success bool, d time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	r.runsTotal.WithLabelValues(result).Inc()
	r.runDuration.Observe(d.Seconds())
	r.lastRunUnix.SetToCurrentTime()
}

// RecordRegistrySize implements Recorder.
func (r *PrometheusRecorder) RecordRegistrySize(n int) {
	r.registrySize.Set(float64(n))
}

// RecordChanges implements Recorder.
func (r *PrometheusRecorder) RecordChanges(added, removed, updated int) {
	r.changesTotal.WithLabelValues("added").Add(float64(added))
	r.changesTotal.WithLabelValues("removed").Add(float64(removed))
	r.changesTotal.WithLabelValues("updated").Add(float64(updated))
}

// Handler serves the exposition endpoint for this recorder's registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
