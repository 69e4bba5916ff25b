// Package health verifies a launched instance.
//
// Verification is two-tiered, and the tiers fail differently:
//
//   - VerifyRunning asserts the instance's reported lifecycle status equals
//     running after a short settle delay. A miss is fatal and carries
//     diagnostics (masked config dump, recent engine log lines) so the
//     failure is inspectable, not an opaque nonzero exit.
//   - The functional probe (package probe) checks the service actually
//     relays traffic. Its failure degrades to ProxyTest=failed, because the
//     probe endpoint can be unreachable for reasons outside this system's
//     control.
//
// Check produces the summary used by the status command.
package health
