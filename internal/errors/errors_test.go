package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSetupError_Error(t *testing.T) {
	err := New(ExitValidation, "bad input")
	if err.Error() != "bad input" {
		t.Errorf("Expected 'bad input', got %q", err.Error())
	}

	wrapped := Wrap(ExitConfigError, "failed to write config", fmt.Errorf("disk full"))
	if !strings.Contains(wrapped.Error(), "failed to write config") {
		t.Errorf("Expected message in error, got %q", wrapped.Error())
	}
	if !strings.Contains(wrapped.Error(), "disk full") {
		t.Errorf("Expected cause in error, got %q", wrapped.Error())
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("port %d out of range", 99999), ExitValidation},
		{"no free port", NoFreePort("range exhausted"), ExitNoFreePort},
		{"port occupied", PortOccupied(8080), ExitNoFreePort},
		{"engine unavailable", EngineUnavailable("daemon not answering", nil), ExitEngineUnavailable},
		{"launch", Launch("instance exited", nil, ""), ExitLaunchFailed},
		{"config", Config("render failed", nil), ExitConfigError},
		{"plain error", fmt.Errorf("something"), ExitGeneralError},
		{"wrapped setup error", fmt.Errorf("outer: %w", NoFreePort("inner")), ExitNoFreePort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapper", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetDiagnostics(t *testing.T) {
	err := Launch("instance exited", nil, "--- config ---\nsocks -p20000")
	if diag := GetDiagnostics(err); !strings.Contains(diag, "socks -p20000") {
		t.Errorf("Expected diagnostics, got %q", diag)
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if diag := GetDiagnostics(wrapped); diag == "" {
		t.Error("Diagnostics should survive wrapping")
	}

	if diag := GetDiagnostics(fmt.Errorf("plain")); diag != "" {
		t.Errorf("Plain errors have no diagnostics, got %q", diag)
	}
}

func TestPortOccupiedMessage(t *testing.T) {
	err := PortOccupied(8080)
	if !strings.Contains(err.Error(), "8080") {
		t.Errorf("Expected port number in message, got %q", err.Error())
	}
}
