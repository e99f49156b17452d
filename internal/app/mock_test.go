package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"brewboxes/pkg/runtime"
)

// MockEngine is a mock implementation of runtime.Engine.
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Kind() runtime.Kind {
	return runtime.KindPodman
}

func (m *MockEngine) Build(ctx context.Context, opts runtime.BuildOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockEngine) Run(ctx context.Context, opts runtime.RunOptions) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *MockEngine) Stop(ctx context.Context, containerID string) error {
	args := m.Called(ctx, containerID)
	return args.Error(0)
}

func (m *MockEngine) Remove(ctx context.Context, containerID string, force bool) error {
	args := m.Called(ctx, containerID, force)
	return args.Error(0)
}

// MockEngineSource is a mock implementation of EngineSource.
type MockEngineSource struct {
	mock.Mock
}

func (m *MockEngineSource) Engine(ctx context.Context) (runtime.Engine, error) {
	args := m.Called(ctx)
	eng, _ := args.Get(0).(runtime.Engine)
	return eng, args.Error(1)
}
