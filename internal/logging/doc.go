// Package logging provides logging utilities for awg-setup.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("allocating port", "requested", port)
//	logging.Warn("firewall rule failed", "manager", "ufw", "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Launching instance %s...", name)
//	logging.UserSuccess("Instance %s is running", name)
//	logging.UserWarning("Functional probe failed: %v", err)
//	logging.UserError("Provisioning failed: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// The machine-parsable result summary (Host=, Port=, ...) is emitted by the
// report package, not through these helpers, so that stdout stays parseable.
package logging
