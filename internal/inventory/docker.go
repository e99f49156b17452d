// Package inventory lists the desktop containers known to the engine through
// the Docker Engine API. Podman serves the same API when DOCKER_HOST points at
// its socket.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/pkg/desktop"
)

// ContainerLister is the part of the Docker client used here.
type ContainerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// Inventory lists containers whose name starts with "<prefix>-".
type Inventory struct {
	lister ContainerLister
	prefix string
	closer func() error
}

// New creates an Inventory backed by lister.
func New(lister ContainerLister, namePrefix string) *Inventory {
	return &Inventory{lister: lister, prefix: namePrefix + "-", closer: func() error { return nil }}
}

// NewDockerInventory creates an Inventory using a client configured from the
// environment (DOCKER_HOST, DOCKER_API_VERSION, DOCKER_CERT_PATH).
func NewDockerInventory(namePrefix string) (*Inventory, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	inv := New(dockerClient, namePrefix)
	inv.closer = dockerClient.Close
	return inv, nil
}

// List returns the managed containers, running or not, sorted by name.
func (i *Inventory) List(ctx context.Context) ([]desktop.ContainerSummary, error) {
	summaries, err := i.lister.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", i.prefix)),
	})
	if err != nil {
		return nil, brewerrors.NewNetworkError(
			"Failed to list containers",
			"the engine API did not answer",
			"Make sure the engine socket is reachable, for podman set DOCKER_HOST to its socket",
			err,
		)
	}

	result := make([]desktop.ContainerSummary, 0, len(summaries))
	for _, s := range summaries {
		name, ok := i.managedName(s.Names)
		if !ok {
			continue
		}
		result = append(result, desktop.ContainerSummary{
			ID:     s.ID,
			Name:   name,
			Image:  s.Image,
			State:  s.State,
			Status: s.Status,
		})
	}

	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	slog.Debug("Listed containers", "prefix", i.prefix, "count", len(result))
	return result, nil
}

// Close releases the API client.
func (i *Inventory) Close() error {
	return i.closer()
}

// managedName returns the first name carrying the prefix. The API reports
// names with a leading slash, and the name filter matches substrings.
func (i *Inventory) managedName(names []string) (string, bool) {
	for _, n := range names {
		n = strings.TrimPrefix(n, "/")
		if strings.HasPrefix(n, i.prefix) {
			return n, true
		}
	}
	return "", false
}
