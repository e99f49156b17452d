// Package app runs the desktop launch pipeline and the container lifecycle
// operations on top of the detected engine.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"brewboxes/internal/buildctx"
	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/launcher"
	"brewboxes/internal/lifecycle"
	"brewboxes/internal/metrics"
	"brewboxes/internal/ports"
	"brewboxes/internal/progress"
	"brewboxes/pkg/desktop"
	"brewboxes/pkg/runtime"
)

// EngineSource yields the engine for an operation, detecting it on first use.
type EngineSource interface {
	Engine(ctx context.Context) (runtime.Engine, error)
}

// Options are the fixed naming and port settings of launched desktops.
type Options struct {
	Registry    string
	NamePrefix  string
	WebPort     int
	ControlPort int
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithContextFactory replaces how build contexts are created.
func WithContextFactory(fn func(imageRef string) (*buildctx.Context, error)) Option {
	return func(o *Orchestrator) {
		o.newContext = fn
	}
}

// WithPortAllocator replaces the host port allocator.
func WithPortAllocator(fn func() (int, error)) Option {
	return func(o *Orchestrator) {
		o.allocate = fn
	}
}

// WithLaunchIDs replaces the launch ID generator.
func WithLaunchIDs(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newLaunchID = fn
	}
}

// Orchestrator owns the launch pipeline and the lifecycle manager.
type Orchestrator struct {
	engines     EngineSource
	opts        Options
	recorder    metrics.Recorder
	validate    *validator.Validate
	lifecycle   *lifecycle.Manager
	stages      []Stage
	newContext  func(imageRef string) (*buildctx.Context, error)
	allocate    func() (int, error)
	newLaunchID func() string
}

// New creates an Orchestrator resolving engines through engines.
func New(engines EngineSource, opts Options, options ...Option) *Orchestrator {
	o := &Orchestrator{
		engines:     engines,
		opts:        opts,
		recorder:    metrics.NoopRecorder{},
		validate:    validator.New(),
		newContext:  buildctx.Create,
		allocate:    ports.Allocate,
		newLaunchID: func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		opt(o)
	}

	o.lifecycle = lifecycle.NewManager(engines, o.recorder)
	o.stages = []Stage{
		NewDetectStage(engines),
		NewContextStage(o.newContext),
		NewBuildStage(),
		NewPortsStage(o.allocate),
		NewRunStage(launcher.New(opts.WebPort, opts.ControlPort)),
	}
	return o
}

// Stages returns the launch pipeline in execution order.
func (o *Orchestrator) Stages() []Stage {
	return append([]Stage(nil), o.stages...)
}

// ValidateSpec checks that both identifiers are present.
func (o *Orchestrator) ValidateSpec(spec desktop.LaunchSpec) error {
	if err := o.validate.Struct(spec); err != nil {
		return brewerrors.NewInvalidRequestError(
			"Missing distro or gui",
			"distro and gui are both required",
			"Send a JSON body with non-empty distro and gui fields",
			nil,
		)
	}
	return nil
}

// Launch builds and starts the desktop described by spec. Events go to sink in
// order and end with exactly one complete or error event. The returned error
// is the one the error event describes.
func (o *Orchestrator) Launch(ctx context.Context, spec desktop.LaunchSpec, sink progress.Sink) (record desktop.ContainerRecord, err error) {
	launchID := o.newLaunchID()
	guard := progress.NewGuard(launchID, sink)
	slog.Info("Launch requested", "launchId", launchID, "distro", spec.Distro, "gui", spec.GUI)

	if err := o.ValidateSpec(spec); err != nil {
		o.fail(guard, "", err)
		return desktop.ContainerRecord{}, err
	}

	state := newLaunchState(launchID, spec, o.opts.Registry, o.opts.NamePrefix, guard)
	defer state.release()
	defer func() {
		if r := recover(); r != nil {
			record = desktop.ContainerRecord{}
			err = brewerrors.NewLaunchError(
				"An unknown error occurred during container launch.",
				fmt.Sprintf("stage %s panicked: %v", state.LastStage, r),
				"",
				nil,
			)
			o.fail(guard, state.LastStage, err)
		}
	}()

	for _, stage := range o.stages {
		state.LastStage = stage.Name()
		slog.Info("Starting launch stage", "launchId", launchID, "stage", stage.Name())

		start := time.Now()
		stageErr := stage.Execute(ctx, state)
		o.recorder.ObserveStageDuration(stage.Name(), time.Since(start))

		if stageErr != nil {
			o.fail(guard, stage.Name(), stageErr)
			return desktop.ContainerRecord{}, stageErr
		}
	}

	o.recorder.IncLaunch(string(metrics.OutcomeSuccess))
	slog.Info("Launch completed", "launchId", launchID, "id", state.Record.ID, "url", state.Record.URL,
		"duration", time.Since(state.StartedAt))
	guard.Emit(progress.Complete(state.Record))
	return state.Record, nil
}

func (o *Orchestrator) fail(guard *progress.Guard, stage string, err error) {
	slog.Error("Launch failed", "launchId", guard.LaunchID(), "stage", stage, "kind", brewerrors.Kind(err), "error", err)
	o.recorder.IncLaunch(brewerrors.Kind(err))
	guard.Emit(progress.Failure(brewerrors.Message(err)))
}

// Stop stops a launched container.
func (o *Orchestrator) Stop(ctx context.Context, containerID string) error {
	return o.lifecycle.Stop(ctx, containerID)
}

// Delete removes a launched container.
func (o *Orchestrator) Delete(ctx context.Context, containerID string, force bool) error {
	return o.lifecycle.Delete(ctx, containerID, force)
}
