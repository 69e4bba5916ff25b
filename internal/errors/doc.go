// Package errors provides typed errors with exit codes for awg-setup.
//
// # Error Types
//
// SetupError is the base error type that wraps an error with an exit code:
//
//	type SetupError struct {
//	    Code        int    // Exit code
//	    Message     string // User-facing message
//	    Cause       error  // Wrapped error
//	    Diagnostics string // Captured engine diagnostics (launch failures)
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess           = 0  // Success
//	ExitGeneralError      = 1  // General/unknown errors
//	ExitValidation        = 2  // Bad or missing input
//	ExitNoFreePort        = 3  // Requested port occupied or range exhausted
//	ExitEngineUnavailable = 4  // Engine install/daemon failure
//	ExitLaunchFailed      = 5  // Instance failed to reach running state
//	ExitConfigError       = 6  // Config artifact synthesis failure
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.Validation("empty credential list")
//	errors.PortOccupied(8080)
//	errors.EngineUnavailable("docker daemon not responding", err)
//	errors.Launch("instance not running", err, diagnostics)
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
//
// A failed functional probe is deliberately NOT an error in this taxonomy:
// it is reported as ProxyTest=failed with exit code 0.
package errors
