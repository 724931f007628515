package errs

import "errors"

// ConstError is an error type whose values can be declared as constants.
type ConstError string

func (e ConstError) Error() string { return string(e) }

// Sentinel errors for the domain layer.
// Backend errors are wrapped with these so that the CLI can tell a missing
// configuration from a missing path without knowing rclone's error values.

var (
	// ErrNotFound is returned when a requested path or object does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConfigNotFound is returned when a remote operation needs an rclone
	// configuration and none could be resolved.
	ErrConfigNotFound = errors.New("rclone config not found")

	// ErrInvalidInput is returned when the input provided is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSystem is returned when an unexpected system error occurs.
	ErrSystem = errors.New("system error")
)
