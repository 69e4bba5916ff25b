// Package prompt provides the interactive fallback for missing inputs.
//
// It is the only interactive surface of awg-setup: when credentials are not
// supplied by flag, environment, or config file AND stdin is a terminal, a
// small Bubble Tea form collects login/password pairs. Password input uses
// EchoPassword so secrets are never echoed to the terminal. The form renders
// on stderr so stdout stays reserved for the machine-parsable report.
//
// In non-interactive contexts (pipes, CI) the caller must not construct a
// prompter; missing values then fail fast with a validation error.
package prompt
