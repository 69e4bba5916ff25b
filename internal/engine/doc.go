// Package engine abstracts the container engine used to run the service.
//
// The concrete implementation shells out to the docker CLI, falling back to
// podman when docker is absent (podman accepts the same subcommand surface
// this package uses). EnsureReady covers the full availability ladder:
// detect the binary, install it through the distro package manager or the
// vendor bootstrap script, then confirm the daemon answers, with one
// systemctl start retry.
//
// MockEngine records calls and injects failures for tests.
package engine
