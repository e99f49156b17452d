// Package launcher starts detached desktop containers.
package launcher

import (
	"context"
	"fmt"
	"log/slog"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/pkg/desktop"
	"brewboxes/pkg/runtime"
)

// Launcher publishes allocated host ports onto the desktop image's fixed
// web and control ports.
type Launcher struct {
	webPort     int
	controlPort int
}

// New returns a Launcher for images serving the web client on webPort and the
// control channel on controlPort.
func New(webPort, controlPort int) *Launcher {
	return &Launcher{webPort: webPort, controlPort: controlPort}
}

// Launch starts imageRef as name and returns the container ID reported by the
// engine with the URL of the frontend port. An empty ID is a failure even when
// the engine exits cleanly.
func (l *Launcher) Launch(ctx context.Context, eng runtime.Engine, imageRef, name string, ports desktop.PortPair) (desktop.ContainerRecord, error) {
	slog.Info("Starting container", "engine", eng.Kind(), "image", imageRef, "name", name,
		"frontendPort", ports.Frontend, "websocketPort", ports.Websocket)

	id, err := eng.Run(ctx, runtime.RunOptions{
		Image: imageRef,
		Name:  name,
		Ports: []runtime.PortBinding{
			{HostPort: ports.Frontend, ContainerPort: l.webPort},
			{HostPort: ports.Websocket, ContainerPort: l.controlPort},
		},
	})
	if err != nil {
		return desktop.ContainerRecord{}, brewerrors.NewLaunchError(
			"Failed to start container",
			fmt.Sprintf("%s run of %s failed", eng.Kind(), name),
			"A container with the same name may already exist; stop and delete it first",
			err,
		)
	}
	if id == "" {
		return desktop.ContainerRecord{}, brewerrors.NewLaunchError(
			"Could not determine container ID from run command output.",
			fmt.Sprintf("%s run printed no container ID", eng.Kind()),
			"Check the engine logs for the container "+name,
			nil,
		)
	}

	record := desktop.ContainerRecord{ID: id, URL: desktop.AccessURL(ports.Frontend)}
	slog.Info("Container started", "id", record.ID, "url", record.URL)
	return record, nil
}
