// Package lifecycle stops and deletes desktop containers.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/metrics"
	"brewboxes/pkg/runtime"
)

const (
	OperationStop   = "stop"
	OperationDelete = "delete"
)

// EngineSource yields the engine to act on, detecting it when needed.
type EngineSource interface {
	Engine(ctx context.Context) (runtime.Engine, error)
}

// Manager runs single engine invocations against existing containers.
type Manager struct {
	engines  EngineSource
	recorder metrics.Recorder
}

// NewManager creates a Manager. A nil recorder records nothing.
func NewManager(engines EngineSource, recorder metrics.Recorder) *Manager {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Manager{engines: engines, recorder: recorder}
}

// Stop stops the container. The engine's error text is kept in the returned error.
func (m *Manager) Stop(ctx context.Context, containerID string) error {
	eng, err := m.prepare(ctx, containerID)
	if err != nil {
		return err
	}

	slog.Info("Stopping container", "engine", eng.Kind(), "id", containerID)
	err = eng.Stop(ctx, containerID)
	m.recorder.IncLifecycleOperation(OperationStop, metrics.OutcomeOf(err))
	if err != nil {
		return brewerrors.NewLifecycleError(
			"Failed to stop container",
			fmt.Sprintf("%s stop %s failed", eng.Kind(), containerID),
			"Check the container ID with the list command",
			err,
		)
	}

	slog.Info("Container stopped", "id", containerID)
	return nil
}

// Delete removes the container. Unless force is set the container must be
// stopped first.
func (m *Manager) Delete(ctx context.Context, containerID string, force bool) error {
	eng, err := m.prepare(ctx, containerID)
	if err != nil {
		return err
	}

	slog.Info("Deleting container", "engine", eng.Kind(), "id", containerID, "force", force)
	err = eng.Remove(ctx, containerID, force)
	m.recorder.IncLifecycleOperation(OperationDelete, metrics.OutcomeOf(err))
	if err != nil {
		return brewerrors.NewLifecycleError(
			"Failed to delete container",
			fmt.Sprintf("%s rm %s failed", eng.Kind(), containerID),
			"Stop the container first or delete with force",
			err,
		)
	}

	slog.Info("Container deleted", "id", containerID)
	return nil
}

func (m *Manager) prepare(ctx context.Context, containerID string) (runtime.Engine, error) {
	if containerID == "" {
		return nil, brewerrors.NewInvalidRequestError(
			"Missing containerId",
			"no container ID was given",
			"Pass the ID returned by the launch",
			nil,
		)
	}
	return m.engines.Engine(ctx)
}
