// Package metrics records launch and lifecycle observations.
package metrics

import "time"

// Outcome labels the result of a launch or lifecycle operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// OutcomeOf maps an error to an Outcome.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Recorder receives observations. Launch outcomes are labelled with the error
// kind name so failures can be told apart.
type Recorder interface {
	IncLaunch(outcome string)
	ObserveStageDuration(stage string, d time.Duration)
	IncLifecycleOperation(operation string, outcome Outcome)
	IncEngineDetection(engine string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncLaunch(string)                           {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncLifecycleOperation(string, Outcome)      {}
func (NoopRecorder) IncEngineDetection(string)                  {}
