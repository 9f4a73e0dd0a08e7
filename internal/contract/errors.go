package contract

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Wrap them with %w and test with errors.Is.
var (
	// ErrInvalidArgument marks a rejected enum value or out-of-range parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAnnotationUnavailable marks a failure of the annotation provider.
	ErrAnnotationUnavailable = errors.New("annotation unavailable")

	// ErrCorpusNotAnalyzed marks a query against a corpus that was never built.
	ErrCorpusNotAnalyzed = errors.New("corpus not analyzed")

	// ErrCorpusBuilding marks a query against a corpus whose build is still running.
	ErrCorpusBuilding = errors.New("corpus build in progress")

	// ErrNotFound marks a repository or user unknown to the hosting service.
	ErrNotFound = errors.New("not found")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
