// Package proxycfg synthesizes the service configuration artifact.
//
// The artifact is a line-oriented 3proxy configuration: resource limits,
// DNS cache size, timeout schedule, a users directive carrying every
// credential as login:CL:password, strong auth mode, one allow rule per
// credential, symmetric bandlimin/bandlimout directives when a bandwidth
// ceiling is set, and a single SOCKS listener bound to the allocated port.
//
// # Guarantees
//
//   - Deterministic rendering: fixed inputs produce byte-identical output.
//   - Owner-only permissions (0600) for the artifact's entire lifetime;
//     there is no window where the file is more permissive.
//   - Atomic visibility: the artifact is written to a temp file and renamed
//     into place, so the instance can never read a half-written config.
//
// The instance mounts the artifact read-only at ContainerConfigPath.
package proxycfg
