package app

import (
	"context"

	"brewboxes/internal/launcher"
)

// RunStage starts the detached container on the allocated ports.
type RunStage struct {
	launcher *launcher.Launcher
}

func NewRunStage(l *launcher.Launcher) *RunStage {
	return &RunStage{launcher: l}
}

func (s *RunStage) Name() string {
	return StageRun
}

func (s *RunStage) Execute(ctx context.Context, state *LaunchState) error {
	state.status("Starting container...")

	record, err := s.launcher.Launch(ctx, state.Engine, state.ImageRef, state.ContainerName, state.Ports)
	if err != nil {
		return err
	}
	state.Record = record
	return nil
}
