package app

import (
	"time"

	"brewboxes/internal/buildctx"
	"brewboxes/internal/progress"
	"brewboxes/pkg/desktop"
	"brewboxes/pkg/runtime"
)

// LaunchState carries one launch through the pipeline. It lives only as long
// as the request.
type LaunchState struct {
	LaunchID      string
	Spec          desktop.LaunchSpec
	ImageRef      string
	ContainerName string
	StartedAt     time.Time

	Engine       runtime.Engine
	BuildContext *buildctx.Context
	Ports        desktop.PortPair
	Record       desktop.ContainerRecord

	// LastStage is the most recent stage entered.
	LastStage string

	sink progress.Sink
}

func newLaunchState(launchID string, spec desktop.LaunchSpec, registry, namePrefix string, sink progress.Sink) *LaunchState {
	return &LaunchState{
		LaunchID:      launchID,
		Spec:          spec,
		ImageRef:      desktop.ImageReference(registry, spec),
		ContainerName: desktop.ContainerName(namePrefix, spec),
		StartedAt:     time.Now(),
		sink:          sink,
	}
}

// status emits a status event.
func (s *LaunchState) status(message string) {
	s.sink.Emit(progress.Status(message))
}

// progress emits one line of engine output.
func (s *LaunchState) progress(line string) {
	s.sink.Emit(progress.Progress(line))
}

// release destroys the build context if one was created.
func (s *LaunchState) release() {
	if s.BuildContext != nil {
		s.BuildContext.Destroy()
	}
}
