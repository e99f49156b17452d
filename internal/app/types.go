package app

import (
	"context"
)

// Stage is one step of the launch pipeline. Stages run in order against a
// shared LaunchState and the first error ends the launch.
type Stage interface {
	Name() string
	Execute(ctx context.Context, state *LaunchState) error
}

// Stage names, also used as metric labels.
const (
	StageDetect  = "detect"
	StageContext = "context"
	StageBuild   = "build"
	StagePorts   = "ports"
	StageRun     = "run"
)
