package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brewboxes"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	registry      *prom.Registry
	launches      *prom.CounterVec
	stageDuration *prom.HistogramVec
	lifecycle     *prom.CounterVec
	detections    *prom.CounterVec
}

// NewPrometheusRecorder creates the collectors and registers them on reg, or on
// a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.launches = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "launches_total",
		Help:      "Desktop launches by outcome",
	}, []string{"outcome"})
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of launch pipeline stages",
		Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	}, []string{"stage"})
	pr.lifecycle = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_operations_total",
		Help:      "Stop and delete operations by result",
	}, []string{"operation", "result"})
	pr.detections = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "engine_detections_total",
		Help:      "Container engine detection rounds by detected engine",
	}, []string{"engine"})
	reg.MustRegister(pr.launches, pr.stageDuration, pr.lifecycle, pr.detections)
	return pr
}

func (p *PrometheusRecorder) IncLaunch(outcome string) {
	if p == nil || p.launches == nil {
		return
	}
	p.launches.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLifecycleOperation(operation string, outcome Outcome) {
	if p == nil || p.lifecycle == nil {
		return
	}
	p.lifecycle.WithLabelValues(operation, string(outcome)).Inc()
}

// IncEngineDetection counts a detection round. An empty engine means none was found.
func (p *PrometheusRecorder) IncEngineDetection(engine string) {
	if p == nil || p.detections == nil {
		return
	}
	if engine == "" {
		engine = "none"
	}
	p.detections.WithLabelValues(engine).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
