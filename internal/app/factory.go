package app

import (
	"log/slog"

	"brewboxes/internal/config"
	"brewboxes/internal/engine"
	"brewboxes/internal/inventory"
	"brewboxes/internal/metrics"
	"brewboxes/pkg/runtime"
)

// Services bundles the components the CLI commands and the HTTP server share.
type Services struct {
	Config       *config.Config
	Detector     *engine.Detector
	Orchestrator *Orchestrator
	// Inventory is nil when no engine API client could be created.
	Inventory *inventory.Inventory
	Recorder  metrics.Recorder
}

// NewServices wires the components for cfg. A nil recorder records nothing.
func NewServices(cfg *config.Config, recorder metrics.Recorder, engineOpts ...engine.Option) *Services {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	opts := append([]engine.Option{engine.WithPTY(cfg.Engine.PTY)}, engineOpts...)
	detector := engine.NewDetector(
		engine.WithEngineOptions(opts...),
		engine.WithDetectHook(func(kind runtime.Kind) {
			recorder.IncEngineDetection(string(kind))
		}),
	)

	orchestrator := New(detector, Options{
		Registry:    cfg.Image.Registry,
		NamePrefix:  cfg.Image.NamePrefix,
		WebPort:     cfg.Image.WebPort,
		ControlPort: cfg.Image.ControlPort,
	}, WithRecorder(recorder))

	inv, err := inventory.NewDockerInventory(cfg.Image.NamePrefix)
	if err != nil {
		slog.Warn("Container inventory unavailable", "error", err)
		inv = nil
	}

	return &Services{
		Config:       cfg,
		Detector:     detector,
		Orchestrator: orchestrator,
		Inventory:    inv,
		Recorder:     recorder,
	}
}

// Close releases the inventory client.
func (s *Services) Close() error {
	if s.Inventory == nil {
		return nil
	}
	return s.Inventory.Close()
}
