package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewboxes/internal/engine"
	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/testutil"
)

func TestHelperProcess(t *testing.T) {
	testutil.RunHelperProcess()
}

const podmanVersion = "podman version 4.9.3\n"

func newTestManager(fake *testutil.FakeExec) *Manager {
	d := engine.NewDetector(engine.WithEngineOptions(engine.WithExecCommand(fake.Command)))
	return NewManager(d, nil)
}

func TestStop(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: podmanVersion}).
		On("podman stop", testutil.Response{Stdout: "abc123\n"})

	require.NoError(t, newTestManager(fake).Stop(context.Background(), "abc123"))

	inv, ok := fake.Find("podman stop")
	require.True(t, ok)
	assert.Equal(t, []string{"stop", "abc123"}, inv.Args)
}

func TestStop_NonexistentContainer(t *testing.T) {
	stderr := "Error: no container with name or ID \"nonexistent-id\" found: no such container"
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: podmanVersion}).
		On("podman stop", testutil.Response{Stderr: stderr + "\n", ExitCode: 125})

	err := newTestManager(fake).Stop(context.Background(), "nonexistent-id")

	require.Error(t, err)
	assert.True(t, errors.Is(err, brewerrors.ErrLifecycleFailure))
	assert.Contains(t, brewerrors.Message(err), stderr)

	var cmdErr *engine.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.NotZero(t, cmdErr.ExitCode)
}

func TestStop_MissingID(t *testing.T) {
	fake := testutil.NewFakeExec()

	err := newTestManager(fake).Stop(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, brewerrors.ErrInvalidRequest))
	assert.Equal(t, "Missing containerId", brewerrors.Message(err))
	assert.Zero(t, fake.Count())
}

func TestStop_NoEngine(t *testing.T) {
	fake := testutil.NewFakeExec()
	fake.Default = testutil.Response{ExitCode: 127}

	err := newTestManager(fake).Stop(context.Background(), "abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, brewerrors.ErrRuntimeNotFound))
	assert.Zero(t, fake.CountFor("podman stop"))
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name  string
		force bool
		want  []string
	}{
		{name: "default", force: false, want: []string{"rm", "abc"}},
		{name: "force", force: true, want: []string{"rm", "-f", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeExec().
				On("podman --version", testutil.Response{Stdout: podmanVersion})

			require.NoError(t, newTestManager(fake).Delete(context.Background(), "abc", tt.force))

			inv, ok := fake.Find("podman rm")
			require.True(t, ok)
			assert.Equal(t, tt.want, inv.Args)
		})
	}
}

func TestDelete_RunningContainer(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: podmanVersion}).
		On("podman rm", testutil.Response{
			Stderr:   "Error: cannot remove container abc as it is running - running or paused containers cannot be removed without force: container state improper\n",
			ExitCode: 2,
		})

	err := newTestManager(fake).Delete(context.Background(), "abc", false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, brewerrors.ErrLifecycleFailure))
	assert.Contains(t, brewerrors.Message(err), "cannot remove container abc as it is running")
}

func TestManager_ReusesDetectedEngine(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: podmanVersion})
	m := newTestManager(fake)

	require.NoError(t, m.Stop(context.Background(), "a"))
	require.NoError(t, m.Delete(context.Background(), "a", false))

	assert.Equal(t, 1, fake.CountFor("podman --version"))
}
