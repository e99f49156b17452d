package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/internal/testutil"
	"brewboxes/pkg/runtime"
)

func newTestDetector(fake *testutil.FakeExec, opts ...DetectorOption) *Detector {
	opts = append([]DetectorOption{WithEngineOptions(WithExecCommand(fake.Command))}, opts...)
	return NewDetector(opts...)
}

func TestDetector_PrefersPodman(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "podman version 4.9.3\n"}).
		On("docker --version", testutil.Response{Stdout: "Docker version 24.0.7, build afdd53b\n"})

	e, err := newTestDetector(fake).Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.KindPodman, e.Kind())
	assert.Equal(t, 0, fake.CountFor("docker --version"))
}

func TestDetector_FallsBackToDocker(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stderr: "podman: command not found", ExitCode: 127}).
		On("docker --version", testutil.Response{Stdout: "Docker version 24.0.7, build afdd53b\n"})

	e, err := newTestDetector(fake).Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.KindDocker, e.Kind())
}

func TestDetector_RequiresMarker(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "something else 1.0\n"}).
		On("docker --version", testutil.Response{Stdout: "Docker version 25.0.0\n"})

	e, err := newTestDetector(fake).Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.KindDocker, e.Kind())
}

func TestDetector_CachesSuccess(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "podman version 4.9.3\n"})
	d := newTestDetector(fake)

	first, err := d.Detect(context.Background())
	require.NoError(t, err)
	second, err := d.Engine(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, fake.Count())

	kind, ok := d.Cached()
	assert.True(t, ok)
	assert.Equal(t, runtime.KindPodman, kind)
}

func TestDetector_NoneFound(t *testing.T) {
	fake := testutil.NewFakeExec()
	fake.Default = testutil.Response{ExitCode: 127}

	var hooked []runtime.Kind
	d := newTestDetector(fake, WithDetectHook(func(k runtime.Kind) { hooked = append(hooked, k) }))

	_, err := d.Detect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, brewerrors.ErrRuntimeNotFound))
	assert.Equal(t, "No container engine (Docker or Podman) found", brewerrors.Message(err))

	_, ok := d.Cached()
	assert.False(t, ok)

	// A failed detection is not remembered.
	_, err = d.Engine(context.Background())
	require.Error(t, err)
	assert.Equal(t, 4, fake.Count())
	assert.Equal(t, []runtime.Kind{"", ""}, hooked)
}

func TestDetector_HookReportsKind(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "podman version 5.0.0"})

	var hooked []runtime.Kind
	d := newTestDetector(fake, WithDetectHook(func(k runtime.Kind) { hooked = append(hooked, k) }))

	_, err := d.Detect(context.Background())
	require.NoError(t, err)
	_, err = d.Detect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []runtime.Kind{runtime.KindPodman}, hooked)
}

func TestDetector_CustomCandidates(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "podman version 4.9.3"}).
		On("docker --version", testutil.Response{Stdout: "Docker version 24.0.7"})

	d := newTestDetector(fake, WithCandidates(Candidate{Kind: runtime.KindDocker, Marker: "Docker version"}))

	e, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.KindDocker, e.Kind())
	assert.Equal(t, 0, fake.CountFor("podman --version"))
}

func TestDetector_ConcurrentFirstCalls(t *testing.T) {
	fake := testutil.NewFakeExec().
		On("podman --version", testutil.Response{Stdout: "podman version 4.9.3\n"})
	d := newTestDetector(fake)

	const callers = 8
	results := make([]*CLIEngine, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			e, err := d.Detect(context.Background())
			assert.NoError(t, err)
			results[i] = e
		}()
	}
	close(start)
	wg.Wait()

	require.NotNil(t, results[0])
	for _, e := range results {
		assert.Same(t, results[0], e)
	}

	// Racing callers may each probe, but never more than once apiece.
	probes := fake.CountFor("podman --version")
	assert.GreaterOrEqual(t, probes, 1)
	assert.LessOrEqual(t, probes, callers)

	cached, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Same(t, results[0], cached)
	assert.Equal(t, probes, fake.CountFor("podman --version"))
}
