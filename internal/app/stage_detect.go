package app

import (
	"context"
	"fmt"
	"log/slog"
)

// DetectStage resolves the container engine. It emits nothing before it
// succeeds, so a missing engine yields a stream holding only the error.
type DetectStage struct {
	engines EngineSource
}

func NewDetectStage(engines EngineSource) *DetectStage {
	return &DetectStage{engines: engines}
}

func (s *DetectStage) Name() string {
	return StageDetect
}

func (s *DetectStage) Execute(ctx context.Context, state *LaunchState) error {
	eng, err := s.engines.Engine(ctx)
	if err != nil {
		return err
	}

	state.Engine = eng
	state.status(fmt.Sprintf("Using container engine: %s", eng.Kind()))
	slog.Info("Container engine selected", "launchId", state.LaunchID, "engine", eng.Kind())
	return nil
}
