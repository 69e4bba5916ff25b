package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetup_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	Info("provisioning started", "instance", "awg-proxy")

	output := buf.String()
	if !strings.Contains(output, "provisioning started") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "awg-proxy") {
		t.Errorf("Expected attribute value in output, got: %s", output)
	}
}

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, true, &buf)

	Info("provisioning started", "port", 20000)

	output := buf.String()
	if !strings.Contains(output, "{") {
		t.Errorf("Expected JSON output, got: %s", output)
	}
	if !strings.Contains(output, "provisioning started") {
		t.Errorf("Expected message in output, got: %s", output)
	}
}

func TestSetup_VerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(true, false, &buf)

	if !Verbose {
		t.Error("Verbose flag should be true after Setup(true, ...)")
	}

	Debug("allocated port", "port", 20000)

	if !strings.Contains(buf.String(), "allocated port") {
		t.Errorf("Debug message should appear in verbose mode, got: %s", buf.String())
	}
}

func TestSetup_NonVerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	if Verbose {
		t.Error("Verbose flag should be false after Setup(false, ...)")
	}

	Debug("allocated port", "port", 20000)

	if strings.Contains(buf.String(), "allocated port") {
		t.Errorf("Debug message should NOT appear in non-verbose mode, got: %s", buf.String())
	}
}

func TestWarnAndError(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	Warn("probe failed", "target", "example.com:80")
	Error("launch failed", "name", "awg-proxy")

	output := buf.String()
	if !strings.Contains(output, "probe failed") {
		t.Errorf("Expected warn message in output, got: %s", output)
	}
	if !strings.Contains(output, "launch failed") {
		t.Errorf("Expected error message in output, got: %s", output)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	logger := With("component", "engine")
	if logger == nil {
		t.Fatal("With() returned nil")
	}

	logger.Info("daemon ready")

	output := buf.String()
	if !strings.Contains(output, "daemon ready") {
		t.Errorf("Expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "component") {
		t.Errorf("Expected bound attribute in output, got: %s", output)
	}
}

func TestSetup_NilWriter(t *testing.T) {
	// Should not panic and should fall back to stderr
	Setup(false, false, nil)

	if Logger == nil {
		t.Error("Logger should not be nil after Setup with nil writer")
	}
}
