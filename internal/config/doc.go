// Package config defines the provisioning request model for awg-setup and
// resolves it from layered sources.
//
// # Resolution Order
//
// Every input is resolved once at startup with documented precedence:
//
//	explicit flag > environment variable > TOML config file > prompt > default
//
// Prompting only happens when stdin is a terminal, and only for credentials;
// in non-interactive mode a missing required value is immediately fatal.
//
// # Recognized Inputs
//
//	┌──────────────┬───────────────────┬─────────────────────────────────────┐
//	│ Flag         │ Environment       │ Meaning                             │
//	├──────────────┼───────────────────┼─────────────────────────────────────┤
//	│ --users      │ AWG_USERS         │ comma-separated login:password list │
//	│ --port       │ AWG_PORT          │ listen port (0 = auto-allocate)     │
//	│ --host       │ AWG_HOST          │ advertised/bind host                │
//	│ --bandwidth  │ AWG_BANDWIDTH     │ per-direction ceiling, bits/sec     │
//	│ --data-dir   │ AWG_DATA_DIR      │ state directory                     │
//	│ --image      │ AWG_IMAGE         │ container image                     │
//	│ --config     │ AWG_CONFIG        │ TOML defaults file                  │
//	│ --probe-target │ AWG_PROBE_TARGET│ functional probe destination        │
//	│ --engine-args  │ AWG_ENGINE_ARGS │ extra engine run args, shell-quoted │
//	└──────────────┴───────────────────┴─────────────────────────────────────┘
//
// # Credential Grammar
//
// Credentials arrive as "login:password" entries separated by commas. Both
// parts must be non-empty and must not contain ':', so entries like "a:b:c"
// are rejected before any file I/O occurs.
//
// # Instance State
//
// Each instance owns <data-dir>/<name>/ containing the rendered config
// artifact, an instance.json metadata document, and a .lock file guarding
// against concurrent runs. Paths are built with securejoin so instance
// names can never escape the data directory.
package config
