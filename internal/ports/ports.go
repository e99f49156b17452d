// Package ports asks the operating system for free TCP ports.
package ports

import (
	"fmt"
	"net"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/pkg/desktop"
)

// anyAddress matches where the engine publishes container ports.
const anyAddress = ":0"

// Allocate binds an ephemeral port on all interfaces, closes the listener and
// returns the port number. Another process may take the port before it is used.
func Allocate() (int, error) {
	l, err := net.Listen("tcp", anyAddress)
	if err != nil {
		return 0, brewerrors.NewNetworkError(
			"Failed to allocate a free port",
			"the operating system refused an ephemeral port",
			"Check the host's ephemeral port range and open socket limits",
			err,
		)
	}

	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, fmt.Errorf("failed to release port %d: %w", port, err)
	}
	return port, nil
}

// AllocatePair allocates the frontend and websocket ports of one launch.
func AllocatePair() (desktop.PortPair, error) {
	frontend, err := Allocate()
	if err != nil {
		return desktop.PortPair{}, err
	}
	websocket, err := Allocate()
	if err != nil {
		return desktop.PortPair{}, err
	}
	return desktop.PortPair{Frontend: frontend, Websocket: websocket}, nil
}
