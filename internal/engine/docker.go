package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// DockerEngine implements the Engine interface by shelling out to Docker or
// Podman, whichever is available.
type DockerEngine struct {
	// Command is the engine command to use (docker or podman).
	// Empty until an engine is found or installed.
	Command string

	// Exec runs engine commands; swapped for a mock in tests.
	Exec system.CommandExecutor
}

// NewDockerEngine creates an engine backend, auto-detecting which command
// is available. An engine binary being absent is not an error here:
// EnsureReady will install one.
func NewDockerEngine(exec system.CommandExecutor) *DockerEngine {
	e := &DockerEngine{Exec: exec}

	for _, cmd := range []string{"docker", "podman"} {
		if _, err := exec.LookPath(cmd); err == nil {
			e.Command = cmd
			break
		}
	}

	return e
}

// Name returns the engine command identifier
func (e *DockerEngine) Name() string {
	if e.Command == "" {
		return "none"
	}
	return e.Command
}

// runCmd executes an engine command
func (e *DockerEngine) runCmd(ctx context.Context, args ...string) (string, error) {
	out, err := e.Exec.Execute(ctx, e.Command, args...)
	if err != nil {
		return "", fmt.Errorf("%s %s failed: %s: %w", e.Command, args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

// EnsureReady drives the engine through its provisioning states:
// absent → installing → ready. Installation goes through the host package
// manager first, then the vendor bootstrap script; a daemon that still does
// not answer afterwards is fatal.
func (e *DockerEngine) EnsureReady(ctx context.Context) error {
	if e.Command == "" {
		logging.Info("container engine not found, installing")
		if err := installEngine(ctx, e.Exec); err != nil {
			return errors.EngineUnavailable("container engine installation failed", err)
		}
		if _, err := e.Exec.LookPath("docker"); err != nil {
			return errors.EngineUnavailable("container engine still not found after installation", err)
		}
		e.Command = "docker"
	}

	if e.daemonActive(ctx) {
		return nil
	}

	// One start attempt before declaring the daemon dead.
	logging.Debug("engine daemon not answering, trying to start it", "engine", e.Command)
	if out, err := e.Exec.Execute(ctx, "systemctl", "start", e.Command); err != nil {
		logging.Debug("systemctl start failed", "engine", e.Command, "output", strings.TrimSpace(string(out)))
	}

	if !e.daemonActive(ctx) {
		return errors.EngineUnavailable(fmt.Sprintf("%s daemon is not in an active running state", e.Command), nil)
	}

	return nil
}

func (e *DockerEngine) daemonActive(ctx context.Context) bool {
	_, err := e.Exec.Execute(ctx, e.Command, "info", "--format", "{{.ServerVersion}}")
	return err == nil
}

// Remove force-removes an instance in any state
func (e *DockerEngine) Remove(ctx context.Context, name string) error {
	logging.Debug("removing instance", "name", name, "engine", e.Command)

	// Stop first (ignore errors if already stopped or absent)
	_, _ = e.runCmd(ctx, "stop", name)

	_, err := e.runCmd(ctx, "rm", "-f", name)
	if err != nil {
		if strings.Contains(err.Error(), "No such container") ||
			strings.Contains(err.Error(), "no such container") {
			return nil
		}
	}

	return err
}

// Run creates and starts a new detached instance
func (e *DockerEngine) Run(ctx context.Context, opts RunOptions) error {
	logging.Debug("starting instance", "name", opts.Name, "image", opts.Image, "port", opts.Port)

	args := []string{"run", "-d", "--name", opts.Name}

	if opts.RestartPolicy != "" {
		args = append(args, "--restart", opts.RestartPolicy)
	}

	args = append(args, "-p", fmt.Sprintf("%s:%d:%d", opts.Host, opts.Port, opts.Port))
	args = append(args, "-v", fmt.Sprintf("%s:%s:ro", opts.ConfigPath, opts.ConfigMount))

	for _, cap := range opts.Capabilities {
		args = append(args, "--cap-add", cap)
	}
	for _, dev := range opts.Devices {
		args = append(args, "--device", dev)
	}

	args = append(args, opts.ExtraArgs...)
	args = append(args, opts.Image)

	_, err := e.runCmd(ctx, args...)
	return err
}

// dockerInspect holds the relevant fields from docker inspect
type dockerInspect struct {
	State struct {
		Status    string `json:"Status"`
		Running   bool   `json:"Running"`
		StartedAt string `json:"StartedAt"`
	} `json:"State"`
}

// Status returns the lifecycle status of an instance
func (e *DockerEngine) Status(ctx context.Context, name string) (*InstanceInfo, error) {
	info := &InstanceInfo{
		Name:   name,
		Status: StatusNotFound,
	}

	output, err := e.runCmd(ctx, "inspect", name)
	if err != nil {
		return info, nil
	}

	var inspects []dockerInspect
	if err := json.Unmarshal([]byte(output), &inspects); err != nil {
		return info, nil
	}
	if len(inspects) == 0 {
		return info, nil
	}

	inspect := inspects[0]
	switch inspect.State.Status {
	case "running":
		info.Status = StatusRunning
	case "exited", "stopped", "created":
		info.Status = StatusStopped
	default:
		info.Status = StatusUnknown
	}
	info.StartedAt = inspect.State.StartedAt

	return info, nil
}

// Logs returns the last lines of the instance's log output
func (e *DockerEngine) Logs(ctx context.Context, name string, lines int) (string, error) {
	// docker logs writes to stderr, so take combined output even on success.
	out, err := e.Exec.Execute(ctx, e.Command, "logs", "--tail", strconv.Itoa(lines), name)
	if err != nil {
		return "", fmt.Errorf("%s logs failed: %s: %w", e.Command, strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}

// Ensure DockerEngine implements Engine
var _ Engine = (*DockerEngine)(nil)
