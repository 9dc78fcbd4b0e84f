// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, out of range, invalid input).
	UserError = 1

	// ConfigError indicates an invalid settings file, environment or flag value.
	ConfigError = 2

	// StorageError indicates storage could not be opened or a write failed.
	StorageError = 3
)
