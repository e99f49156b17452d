package engine

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"brewboxes/pkg/runtime"
)

// ExitStatus is how an engine process ended. Code is -1 when the process did
// not report one.
type ExitStatus struct {
	Code   int
	Signal string
}

// Success reports a zero exit, or an exit with neither a code nor a signal.
// Pseudo-terminal sessions sometimes end that way after a normal completion.
func (s ExitStatus) Success() bool {
	return s.Code == 0 || (s.Code < 0 && s.Signal == "")
}

func (s ExitStatus) String() string {
	signal := s.Signal
	if signal == "" {
		signal = "none"
	}
	return fmt.Sprintf("code %d, signal %s", s.Code, signal)
}

// ExitError is returned when a streamed engine process exits unsuccessfully.
type ExitError struct {
	Engine    runtime.Kind
	Operation string
	Status    ExitStatus
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s %s exited with %s", e.Engine, e.Operation, e.Status)
}

// CommandError is returned when a buffered engine command fails. Its message
// is the engine's own error output.
type CommandError struct {
	Engine   runtime.Kind
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("%s %s failed: %v", e.Engine, strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// statusOf converts a finished process state into an ExitStatus.
func statusOf(ps *os.ProcessState) ExitStatus {
	status := ExitStatus{Code: ps.ExitCode()}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		status.Signal = ws.Signal().String()
	}
	return status
}

// classifyExit maps the result of cmd.Wait to nil or an *ExitError.
func classifyExit(kind runtime.Kind, operation string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%s %s failed: %w", kind, operation, err)
	}

	status := statusOf(exitErr.ProcessState)
	if status.Success() {
		return nil
	}
	return &ExitError{Engine: kind, Operation: operation, Status: status}
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
