package unity

import "errors"

// Sentinel errors
var (
	// ErrInvalidIgnorePattern is returned when a project's ignore regex does
	// not compile. It is fatal for the whole generation pass.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrCacheWrite is returned when an aggregate could not be created,
	// written or saved.
	ErrCacheWrite = errors.New("failed to write aggregate")

	// ErrBucketCount is returned for a bucket count below one.
	ErrBucketCount = errors.New("bucket count must be at least 1")
)
