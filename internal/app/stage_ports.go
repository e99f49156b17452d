package app

import (
	"context"

	"brewboxes/pkg/desktop"
)

// PortsStage allocates the frontend and websocket host ports.
type PortsStage struct {
	allocate func() (int, error)
}

func NewPortsStage(allocate func() (int, error)) *PortsStage {
	return &PortsStage{allocate: allocate}
}

func (s *PortsStage) Name() string {
	return StagePorts
}

func (s *PortsStage) Execute(ctx context.Context, state *LaunchState) error {
	state.status("Allocating ports...")

	frontend, err := s.allocate()
	if err != nil {
		return err
	}
	websocket, err := s.allocate()
	if err != nil {
		return err
	}

	state.Ports = desktop.PortPair{Frontend: frontend, Websocket: websocket}
	return nil
}
