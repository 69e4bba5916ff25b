package health

import (
	"context"
	"fmt"
	"time"

	"github.com/iDenSorta/amneziawg-setup/internal/engine"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/logging"
	"github.com/iDenSorta/amneziawg-setup/internal/proxycfg"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

// DiagnosticLogLines is how many trailing engine log lines are captured
// into launch-failure diagnostics.
const DiagnosticLogLines = 50

// VerifyOptions holds the inputs for the post-launch verification.
type VerifyOptions struct {
	Name        string
	ConfigPath  string
	SettleDelay time.Duration
}

// VerifyRunning waits out the settle delay and asserts the instance reports
// a running lifecycle state. Anything else is a fatal launch error with the
// masked config dump and recent engine log lines attached as diagnostics.
func VerifyRunning(ctx context.Context, eng engine.Engine, fsys system.FileSystem, opts VerifyOptions) error {
	if opts.SettleDelay > 0 {
		logging.Debug("waiting for instance to settle", "delay", opts.SettleDelay)
		select {
		case <-time.After(opts.SettleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	info, err := eng.Status(ctx, opts.Name)
	if err != nil {
		return errors.Launch("failed to query instance status", err, collectDiagnostics(ctx, eng, fsys, opts))
	}

	if info.Status != engine.StatusRunning {
		return errors.Launch(
			fmt.Sprintf("instance %s is %s, expected running", opts.Name, info.Status),
			nil,
			collectDiagnostics(ctx, eng, fsys, opts),
		)
	}

	logging.Debug("instance is running", "name", opts.Name, "startedAt", info.StartedAt)
	return nil
}

func collectDiagnostics(ctx context.Context, eng engine.Engine, fsys system.FileSystem, opts VerifyOptions) string {
	logs, err := eng.Logs(ctx, opts.Name, DiagnosticLogLines)
	if err != nil {
		logs = fmt.Sprintf("(logs unavailable: %v)", err)
	}

	return fmt.Sprintf("--- config %s ---\n%s\n--- last %d log lines ---\n%s",
		opts.ConfigPath, proxycfg.Dump(fsys, opts.ConfigPath), DiagnosticLogLines, logs)
}

// CheckResult contains a health summary for the status command.
type CheckResult struct {
	Status  engine.InstanceStatus
	Running bool
	Uptime  string
}

// Check queries the instance status and derives a summary.
func Check(ctx context.Context, eng engine.Engine, name string) *CheckResult {
	result := &CheckResult{Status: engine.StatusUnknown}

	info, err := eng.Status(ctx, name)
	if err != nil || info == nil {
		return result
	}

	result.Status = info.Status
	result.Running = info.Status == engine.StatusRunning
	if result.Running {
		result.Uptime = uptime(info.StartedAt)
	}

	return result
}

// uptime converts the engine's StartedAt timestamp to a human-readable
// duration. Unparseable values are returned verbatim.
func uptime(since string) string {
	if since == "" {
		return "unknown"
	}

	var t time.Time
	for _, format := range []string{time.RFC3339, time.RFC3339Nano} {
		if parsed, err := time.Parse(format, since); err == nil {
			t = parsed
			break
		}
	}
	if t.IsZero() {
		return since
	}

	return formatDuration(time.Since(t))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	} else if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
