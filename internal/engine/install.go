package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// bootstrapURL is the vendor bootstrap script used when no host package
// manager can install the engine.
const bootstrapURL = "https://get.docker.com"

// packageManagers lists the install commands tried in order. The first
// manager whose binary exists on the host is used.
var packageManagers = []struct {
	binary string
	args   [][]string
}{
	{"apt-get", [][]string{
		{"apt-get", "update", "-qq"},
		{"apt-get", "install", "-y", "docker.io"},
	}},
	{"dnf", [][]string{
		{"dnf", "install", "-y", "docker"},
	}},
	{"yum", [][]string{
		{"yum", "install", "-y", "docker"},
	}},
}

// installEngine installs the container engine: host package manager first,
// vendor bootstrap script as fallback. Returns an error only when every
// route failed.
func installEngine(ctx context.Context, exec system.CommandExecutor) error {
	var lastErr error

	for _, pm := range packageManagers {
		if _, err := exec.LookPath(pm.binary); err != nil {
			continue
		}

		logging.Info("installing container engine", "packageManager", pm.binary)
		if err := runSteps(ctx, exec, pm.args); err != nil {
			logging.Warn("package manager install failed", "packageManager", pm.binary, "error", err)
			lastErr = err
			break // fall through to the bootstrap script
		}
		return nil
	}

	logging.Info("installing container engine via bootstrap script", "url", bootstrapURL)
	out, err := exec.Execute(ctx, "sh", "-c", fmt.Sprintf("curl -fsSL %s | sh", bootstrapURL))
	if err != nil {
		tail := lastLines(string(out), 5)
		if lastErr != nil {
			return fmt.Errorf("bootstrap script failed after package manager failure (%v): %s: %w", lastErr, tail, err)
		}
		return fmt.Errorf("bootstrap script failed: %s: %w", tail, err)
	}

	return nil
}

func runSteps(ctx context.Context, exec system.CommandExecutor, steps [][]string) error {
	for _, step := range steps {
		out, err := exec.Execute(ctx, step[0], step[1:]...)
		if err != nil {
			return fmt.Errorf("%s failed: %s: %w", strings.Join(step, " "), lastLines(string(out), 5), err)
		}
	}
	return nil
}

// lastLines returns the trailing n lines of s, for compact error context.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
