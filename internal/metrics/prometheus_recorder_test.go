package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncLaunch("success")
	pr.IncLaunch("build_failure")
	pr.IncLaunch("success")
	pr.ObserveStageDuration("build", 1500*time.Millisecond)
	pr.IncLifecycleOperation("stop", OutcomeFailure)
	pr.IncEngineDetection("podman")
	pr.IncEngineDetection("")

	assert.Equal(t, 2.0, promtest.ToFloat64(pr.launches.WithLabelValues("success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(pr.launches.WithLabelValues("build_failure")))
	assert.Equal(t, 1.0, promtest.ToFloat64(pr.lifecycle.WithLabelValues("stop", "failure")))
	assert.Equal(t, 1.0, promtest.ToFloat64(pr.detections.WithLabelValues("none")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 4)
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncLaunch("success")

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `brewboxes_launches_total{outcome="success"} 1`))
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncLaunch("success")
		pr.ObserveStageDuration("run", time.Second)
		pr.IncLifecycleOperation("delete", OutcomeSuccess)
		pr.IncEngineDetection("docker")
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.IncLaunch("success")
		r.ObserveStageDuration("ports", time.Millisecond)
		r.IncLifecycleOperation("stop", OutcomeSuccess)
		r.IncEngineDetection("podman")
	})
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, OutcomeOf(nil))
	assert.Equal(t, OutcomeFailure, OutcomeOf(errors.New("x")))
}
