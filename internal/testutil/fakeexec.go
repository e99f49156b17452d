// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

const (
	helperEnv       = "GO_WANT_HELPER_PROCESS"
	helperExitCode  = "GO_HELPER_EXIT_CODE"
	helperStdout    = "GO_HELPER_STDOUT"
	helperStderr    = "GO_HELPER_STDERR"
	helperRunFilter = "-test.run=TestHelperProcess"
)

type (
	// Response is what a faked command writes and how it exits.
	Response struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	// Invocation records a single faked command.
	Invocation struct {
		Name string
		Args []string
	}

	// FakeExec replaces exec.CommandContext. Each call is recorded and answered by
	// re-executing the test binary as TestHelperProcess with the matching Response.
	//
	// Responses are keyed by "<name> <first arg>" (for example "podman build")
	// with "<name>" as a fallback and Default otherwise.
	FakeExec struct {
		mu          sync.Mutex
		invocations []Invocation
		responses   map[string]Response
		Default     Response
	}
)

// NewFakeExec returns a FakeExec whose commands succeed silently unless configured.
func NewFakeExec() *FakeExec {
	return &FakeExec{responses: make(map[string]Response)}
}

// On registers the response for key.
func (f *FakeExec) On(key string, r Response) *FakeExec {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = r
	return f
}

// Command has the signature of exec.CommandContext.
func (f *FakeExec) Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	f.mu.Lock()
	f.invocations = append(f.invocations, Invocation{Name: name, Args: append([]string(nil), args...)})
	r := f.lookup(name, args)
	f.mu.Unlock()

	cs := []string{helperRunFilter, "--", name}
	cs = append(cs, args...)
	//nolint:gosec // re-executes the test binary
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{
		helperEnv + "=1",
		helperExitCode + "=" + strconv.Itoa(r.ExitCode),
		helperStdout + "=" + r.Stdout,
		helperStderr + "=" + r.Stderr,
	}
	return cmd
}

func (f *FakeExec) lookup(name string, args []string) Response {
	if len(args) > 0 {
		if r, ok := f.responses[name+" "+args[0]]; ok {
			return r
		}
	}
	if r, ok := f.responses[name]; ok {
		return r
	}
	return f.Default
}

// Invocations returns a copy of the recorded invocations.
func (f *FakeExec) Invocations() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Invocation(nil), f.invocations...)
}

// Count returns how many commands were started.
func (f *FakeExec) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.invocations)
}

// CountFor returns how many invocations match key, using the same keys as On.
func (f *FakeExec) CountFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, inv := range f.invocations {
		if inv.Name == key || (len(inv.Args) > 0 && inv.Name+" "+inv.Args[0] == key) {
			n++
		}
	}
	return n
}

// Find returns the first invocation matching key.
func (f *FakeExec) Find(key string) (Invocation, bool) {
	for _, inv := range f.Invocations() {
		if inv.Name == key || (len(inv.Args) > 0 && inv.Name+" "+inv.Args[0] == key) {
			return inv, true
		}
	}
	return Invocation{}, false
}

// String renders an invocation as a command line.
func (i Invocation) String() string {
	return strings.TrimSpace(i.Name + " " + strings.Join(i.Args, " "))
}

// RunHelperProcess is the body of a package's TestHelperProcess. It returns
// immediately unless the process was started by FakeExec.
//
//	func TestHelperProcess(t *testing.T) { testutil.RunHelperProcess() }
func RunHelperProcess() {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	if stdout := os.Getenv(helperStdout); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv(helperStderr); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode, _ := strconv.Atoi(os.Getenv(helperExitCode))
	os.Exit(exitCode)
}
