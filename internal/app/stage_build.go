package app

import (
	"context"
	"log/slog"

	"brewboxes/internal/builder"
)

// BuildStage tags the upstream image locally, forwarding engine output.
type BuildStage struct{}

func NewBuildStage() *BuildStage {
	return &BuildStage{}
}

func (s *BuildStage) Name() string {
	return StageBuild
}

func (s *BuildStage) Execute(ctx context.Context, state *LaunchState) error {
	state.status("Building image...")
	slog.Info("Building image", "launchId", state.LaunchID, "image", state.ImageRef, "context", state.BuildContext.Dir())

	if err := builder.Build(ctx, state.Engine, state.ImageRef, state.BuildContext.Dir(), state.progress); err != nil {
		return err
	}

	state.status("Image built successfully")
	return nil
}
