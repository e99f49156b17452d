package desktop

import (
	"fmt"
	"strconv"
)

// LaunchSpec is the request for a browser-accessible desktop: a Linux distribution
// combined with a desktop environment. It is decoded from the launch request body.
type LaunchSpec struct {
	Distro string `json:"distro" validate:"required"`
	GUI    string `json:"gui" validate:"required"`
}

// ContainerRecord is the result of a successful launch.
type ContainerRecord struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PortPair holds the two host ports published for a desktop container.
type PortPair struct {
	Frontend  int `json:"frontend"`
	Websocket int `json:"websocket"`
}

// ContainerSummary describes a running or stopped desktop container as reported by the engine.
type ContainerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	State  string `json:"state"`
	Status string `json:"status"`
}

// ImageReference returns the tag the desktop image is built under.
// The same distro and gui always yield the same reference.
func ImageReference(registry string, spec LaunchSpec) string {
	return fmt.Sprintf("%s:%s-%s", registry, spec.Distro, spec.GUI)
}

// ContainerName returns the name given to the desktop container.
// It is not unique per launch: launching the same pair twice collides at the engine.
func ContainerName(prefix string, spec LaunchSpec) string {
	return fmt.Sprintf("%s-%s-%s", prefix, spec.Distro, spec.GUI)
}

// AccessURL returns the browser URL for a container published on the given frontend port.
func AccessURL(frontendPort int) string {
	return "http://localhost:" + strconv.Itoa(frontendPort)
}
