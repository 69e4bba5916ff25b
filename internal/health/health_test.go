package health

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iDenSorta/amneziawg-setup/internal/engine"
	"github.com/iDenSorta/amneziawg-setup/internal/errors"
	"github.com/iDenSorta/amneziawg-setup/internal/system"
)

func TestVerifyRunning_Success(t *testing.T) {
	eng := engine.NewMockEngine()
	eng.AddInstance("awg-proxy", engine.StatusRunning)

	err := VerifyRunning(context.Background(), eng, system.NewMockFS(), VerifyOptions{
		Name: "awg-proxy",
	})
	if err != nil {
		t.Fatalf("VerifyRunning failed: %v", err)
	}
}

func TestVerifyRunning_StoppedInstanceIsFatal(t *testing.T) {
	eng := engine.NewMockEngine()
	eng.AddInstance("awg-proxy", engine.StatusStopped)
	eng.LogOutput["awg-proxy"] = "3proxy: bind failed"

	fs := system.NewMockFS()
	fs.AddFile("/data/awg-proxy/3proxy.cfg", []byte("users alice:CL:pw\nsocks -p20000\n"), 0600)

	err := VerifyRunning(context.Background(), eng, fs, VerifyOptions{
		Name:       "awg-proxy",
		ConfigPath: "/data/awg-proxy/3proxy.cfg",
	})
	if err == nil {
		t.Fatal("Expected a launch failure")
	}
	if errors.GetExitCode(err) != errors.ExitLaunchFailed {
		t.Errorf("Expected exit code %d, got %d", errors.ExitLaunchFailed, errors.GetExitCode(err))
	}

	diag := errors.GetDiagnostics(err)
	if !strings.Contains(diag, "bind failed") {
		t.Errorf("Diagnostics should carry engine logs, got:\n%s", diag)
	}
	if !strings.Contains(diag, "socks -p20000") {
		t.Errorf("Diagnostics should carry the config dump, got:\n%s", diag)
	}
	if strings.Contains(diag, "alice:CL:pw") {
		t.Errorf("Diagnostics must mask passwords, got:\n%s", diag)
	}
}

func TestVerifyRunning_HonorsSettleDelay(t *testing.T) {
	eng := engine.NewMockEngine()
	eng.AddInstance("awg-proxy", engine.StatusRunning)

	start := time.Now()
	err := VerifyRunning(context.Background(), eng, system.NewMockFS(), VerifyOptions{
		Name:        "awg-proxy",
		SettleDelay: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("VerifyRunning failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Settle delay not honored, elapsed %v", elapsed)
	}
}

func TestVerifyRunning_CanceledContext(t *testing.T) {
	eng := engine.NewMockEngine()
	eng.AddInstance("awg-proxy", engine.StatusRunning)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := VerifyRunning(ctx, eng, system.NewMockFS(), VerifyOptions{
		Name:        "awg-proxy",
		SettleDelay: time.Minute,
	})
	if err == nil {
		t.Error("Expected a context error")
	}
}

func TestCheck_RunningInstance(t *testing.T) {
	eng := engine.NewMockEngine()
	eng.Instances["awg-proxy"] = &engine.InstanceInfo{
		Name:      "awg-proxy",
		Status:    engine.StatusRunning,
		StartedAt: time.Now().Add(-90 * time.Second).Format(time.RFC3339),
	}

	result := Check(context.Background(), eng, "awg-proxy")
	if !result.Running {
		t.Error("Expected the instance to report running")
	}
	if result.Uptime == "" || result.Uptime == "unknown" {
		t.Errorf("Expected a computed uptime, got %q", result.Uptime)
	}
}

func TestCheck_MissingInstance(t *testing.T) {
	eng := engine.NewMockEngine()

	result := Check(context.Background(), eng, "nope")
	if result.Running {
		t.Error("Missing instance must not report running")
	}
	if result.Status != engine.StatusNotFound {
		t.Errorf("Expected not-found, got %s", result.Status)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3*time.Hour + 20*time.Minute, "3h 20m"},
		{50 * time.Hour, "2d 2h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
