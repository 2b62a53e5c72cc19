// ABOUTME: Error types for the archive resolver: NotFoundError for per-request misses and
// ABOUTME: ConfigurationError for a root directory that cannot be served at startup.
package archive

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a request path does not resolve to a servable file.
// Cause is kept for operator logs only and must never be rendered to clients.
type NotFoundError struct {
	Path  string
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("not found: %q: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("not found: %q", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports a root directory that is missing, not a directory,
// or unreadable. It is fatal at startup.
type ConfigurationError struct {
	Root   string
	Reason string
	Cause  error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid root directory %q: %s", e.Root, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConfiguration reports whether err is or wraps a *ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

func notFound(path string, cause error) *NotFoundError {
	return &NotFoundError{Path: path, Cause: cause}
}
