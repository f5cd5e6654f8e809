// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols printed by long-running commands.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Stop marks a shutdown in progress.
	Stop = "■"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Rocket marks a server coming up.
	Rocket = "🚀"
)
