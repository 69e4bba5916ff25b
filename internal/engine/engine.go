// Package engine defines the container engine interface for awg-setup.
// The abstraction keeps the engine a narrow process-boundary collaborator
// (docker/podman CLI) and enables testing through mocking.
package engine

import (
	"context"
)

// InstanceStatus represents the lifecycle state of an instance
type InstanceStatus string

const (
	StatusRunning  InstanceStatus = "running"
	StatusStopped  InstanceStatus = "stopped"
	StatusNotFound InstanceStatus = "not-found"
	StatusUnknown  InstanceStatus = "unknown"
)

// InstanceInfo holds information about an instance
type InstanceInfo struct {
	Name      string
	Status    InstanceStatus
	StartedAt string
}

// RunOptions holds the launch parameters for a service instance. Everything
// the instance needs (port binding, config mount, capabilities, devices)
// is declared here explicitly, never inferred.
type RunOptions struct {
	Name          string
	Image         string
	Host          string // bind address for the published port
	Port          int    // host and container port (1:1 mapping)
	ConfigPath    string // host path of the rendered config artifact
	ConfigMount   string // container path the artifact is mounted at (read-only)
	RestartPolicy string // e.g. "unless-stopped"
	Capabilities  []string
	Devices       []string
	ExtraArgs     []string
}

// Engine is the interface container engine backends must implement.
type Engine interface {
	// Name returns the engine command identifier (e.g. "docker", "podman")
	Name() string

	// EnsureReady makes sure the engine is installed and its daemon
	// answers, installing it via the host package manager or the vendor
	// bootstrap script if necessary.
	EnsureReady(ctx context.Context) error

	// Remove force-removes an instance in any state. Removing a
	// nonexistent instance is not an error.
	Remove(ctx context.Context, name string) error

	// Run creates and starts a new detached instance.
	Run(ctx context.Context, opts RunOptions) error

	// Status returns the instance lifecycle status
	Status(ctx context.Context, name string) (*InstanceInfo, error)

	// Logs returns the last lines of the instance's log output
	Logs(ctx context.Context, name string, lines int) (string, error)
}
