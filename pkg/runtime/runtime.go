// Located in pkg/runtime/runtime.go
package runtime

import (
	"context"
)

// Kind identifies a container engine implementation.
type Kind string

const (
	KindPodman Kind = "podman"
	KindDocker Kind = "docker"
)

// BuildOptions defines the parameters for building an image.
type BuildOptions struct {
	Tag        string
	ContextDir string
	// OnLine receives every line of build output as it is produced.
	OnLine func(line string)
}

// PortBinding publishes a container port on the host.
type PortBinding struct {
	HostPort      int
	ContainerPort int
}

// RunOptions defines the parameters for starting a detached container.
type RunOptions struct {
	Image string
	Name  string
	Ports []PortBinding
}

// Engine defines the contract for container engine operations.
type Engine interface {
	Kind() Kind
	Build(ctx context.Context, opts BuildOptions) error
	// Run starts a detached container and returns the engine's stdout.
	Run(ctx context.Context, opts RunOptions) (string, error)
	Stop(ctx context.Context, containerID string) error
	Remove(ctx context.Context, containerID string, force bool) error
}
