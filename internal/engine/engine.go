// Package engine drives the podman and docker command line tools.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/creack/pty"

	"brewboxes/pkg/runtime"
)

// ExecCommandFunc creates commands. It has the signature of exec.CommandContext
// so tests can substitute a fake.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Option configures a CLIEngine.
type Option func(*CLIEngine)

// WithExecCommand replaces the function used to create commands.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(e *CLIEngine) {
		e.execCommand = fn
	}
}

// WithPTY selects whether builds run under a pseudo-terminal.
func WithPTY(enabled bool) Option {
	return func(e *CLIEngine) {
		e.usePTY = enabled
	}
}

// CLIEngine implements runtime.Engine by shelling out to an engine binary.
// Podman and docker accept the same arguments for everything used here.
type CLIEngine struct {
	kind        runtime.Kind
	binary      string
	execCommand ExecCommandFunc
	usePTY      bool
}

var _ runtime.Engine = (*CLIEngine)(nil)

// NewCLIEngine creates an engine for kind.
func NewCLIEngine(kind runtime.Kind, opts ...Option) *CLIEngine {
	e := &CLIEngine{
		kind:        kind,
		binary:      string(kind),
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Kind returns the engine kind.
func (e *CLIEngine) Kind() runtime.Kind {
	return e.kind
}

// Version runs "<binary> --version" and returns its stdout.
func (e *CLIEngine) Version(ctx context.Context) (string, error) {
	return e.output(ctx, "--version")
}

// Build runs "<binary> build -t <tag> <dir>", passing each output line to
// opts.OnLine as it arrives.
func (e *CLIEngine) Build(ctx context.Context, opts runtime.BuildOptions) error {
	args := e.BuildArgs(opts)
	slog.Debug("Executing engine command", "engine", e.kind, "binary", e.binary, "args", args, "pty", e.usePTY)

	cmd := e.execCommand(ctx, e.binary, args...)
	onLine := opts.OnLine
	if onLine == nil {
		onLine = func(string) {}
	}

	if e.usePTY {
		return e.buildWithPTY(cmd, onLine)
	}
	return e.buildWithPipes(cmd, onLine)
}

// BuildArgs returns the arguments of the build invocation.
func (e *CLIEngine) BuildArgs(opts runtime.BuildOptions) []string {
	return []string{"build", "-t", opts.Tag, opts.ContextDir}
}

func (e *CLIEngine) buildWithPTY(cmd *exec.Cmd, onLine func(string)) error {
	tty, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 80, Rows: 30})
	if err != nil {
		return fmt.Errorf("failed to start %s build under pty: %w", e.kind, err)
	}
	defer tty.Close()

	// The master side reports EIO once the child has exited and the
	// slave side is closed, which ends the stream like EOF.
	streamLines(tty, onLine)

	return classifyExit(e.kind, "build", cmd.Wait())
}

func (e *CLIEngine) buildWithPipes(cmd *exec.Cmd, onLine func(string)) error {
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("failed to start %s build: %w", e.kind, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		pw.Close()
		waitErr <- err
	}()

	streamLines(pr, onLine)

	return classifyExit(e.kind, "build", <-waitErr)
}

// Run starts a detached container and returns the engine's trimmed stdout.
func (e *CLIEngine) Run(ctx context.Context, opts runtime.RunOptions) (string, error) {
	out, err := e.output(ctx, e.RunArgs(opts)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RunArgs returns the arguments of the detached run invocation.
func (e *CLIEngine) RunArgs(opts runtime.RunOptions) []string {
	args := []string{"run", "-d"}
	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	for _, p := range opts.Ports {
		args = append(args, "-p", strconv.Itoa(p.HostPort)+":"+strconv.Itoa(p.ContainerPort))
	}
	return append(args, opts.Image)
}

// Stop runs "<binary> stop <id>".
func (e *CLIEngine) Stop(ctx context.Context, containerID string) error {
	_, err := e.output(ctx, "stop", containerID)
	return err
}

// Remove runs "<binary> rm [-f] <id>".
func (e *CLIEngine) Remove(ctx context.Context, containerID string, force bool) error {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	_, err := e.output(ctx, append(args, containerID)...)
	return err
}

// output runs a command to completion and returns its stdout. Failures are
// returned as *CommandError carrying the engine's stderr.
func (e *CLIEngine) output(ctx context.Context, args ...string) (string, error) {
	slog.Debug("Executing engine command", "engine", e.kind, "binary", e.binary, "args", args)

	var stdout, stderr bytes.Buffer
	cmd := e.execCommand(ctx, e.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), &CommandError{
			Engine:   e.kind,
			Args:     args,
			Stderr:   stderr.String(),
			ExitCode: exitCodeOf(err),
			Err:      err,
		}
	}
	return stdout.String(), nil
}
