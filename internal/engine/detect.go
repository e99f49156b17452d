package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/pkg/runtime"
)

// Candidate is an engine to probe and the marker its version output must contain.
type Candidate struct {
	Kind   runtime.Kind
	Marker string
}

// DefaultCandidates lists the supported engines in priority order.
var DefaultCandidates = []Candidate{
	{Kind: runtime.KindPodman, Marker: "podman version"},
	{Kind: runtime.KindDocker, Marker: "Docker version"},
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithEngineOptions sets the options applied to probed and returned engines.
func WithEngineOptions(opts ...Option) DetectorOption {
	return func(d *Detector) {
		d.engineOpts = append(d.engineOpts, opts...)
	}
}

// WithCandidates overrides the probe order.
func WithCandidates(candidates ...Candidate) DetectorOption {
	return func(d *Detector) {
		d.candidates = candidates
	}
}

// WithDetectHook registers a function called after every probe round with the
// detected kind, or an empty kind when nothing was found.
func WithDetectHook(fn func(runtime.Kind)) DetectorOption {
	return func(d *Detector) {
		d.onDetect = fn
	}
}

// Detector finds a usable engine and remembers it for the life of the process.
// Only a successful result is remembered, so a missing engine is looked for
// again on the next call. Concurrent first calls may both probe; the first
// result stored wins.
type Detector struct {
	candidates []Candidate
	engineOpts []Option
	onDetect   func(runtime.Kind)
	cached     atomic.Pointer[CLIEngine]
}

// NewDetector creates a Detector probing DefaultCandidates.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{candidates: DefaultCandidates}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the cached engine or probes the candidates in order.
func (d *Detector) Detect(ctx context.Context) (*CLIEngine, error) {
	if e := d.cached.Load(); e != nil {
		return e, nil
	}

	slog.Info("Detecting container engine")
	for _, c := range d.candidates {
		e := NewCLIEngine(c.Kind, d.engineOpts...)
		out, err := e.Version(ctx)
		if err != nil {
			slog.Debug("Container engine unavailable", "engine", c.Kind, "error", err)
			continue
		}
		if !strings.Contains(out, c.Marker) {
			slog.Debug("Container engine version output not recognized", "engine", c.Kind, "output", strings.TrimSpace(out))
			continue
		}

		if !d.cached.CompareAndSwap(nil, e) {
			e = d.cached.Load()
		}
		slog.Info("Container engine detected", "engine", e.Kind())
		d.notify(e.Kind())
		return e, nil
	}

	d.notify("")
	return nil, brewerrors.NewRuntimeNotFoundError(
		"No container engine (Docker or Podman) found",
		"neither podman nor docker answered their version command",
		"Install podman or docker and make sure it is on PATH (see engine.search_paths)",
		nil,
	)
}

// Engine is Detect returning the runtime.Engine interface.
func (d *Detector) Engine(ctx context.Context) (runtime.Engine, error) {
	e, err := d.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Cached returns the remembered engine kind without probing.
func (d *Detector) Cached() (runtime.Kind, bool) {
	if e := d.cached.Load(); e != nil {
		return e.Kind(), true
	}
	return "", false
}

func (d *Detector) notify(kind runtime.Kind) {
	if d.onDetect != nil {
		d.onDetect(kind)
	}
}
