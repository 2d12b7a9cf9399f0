package main

import (
	"errors"
	"fmt"
)

// ErrBucketNotFound is wrapped by SiteStorer.ListObjects when the bucket has
// not been created yet.
var ErrBucketNotFound = errors.New("bucket does not exist")

// UsageError is raised before any remote call when the site or its options
// cannot be used as given.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %s", e.Reason)
}

func newUsageError(format string, args ...any) error {
	return &UsageError{Reason: fmt.Sprintf(format, args...)}
}

// IndexError wraps a local filesystem failure hit while building the index.
type IndexError struct {
	Path string
	Err  error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("error indexing %s: %v", e.Path, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// RemoteError wraps a storage or CDN call failure.
type RemoteError struct {
	Op  string
	Key string
	Err error
}

func (e *RemoteError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("error during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("error during %s of %s: %v", e.Op, e.Key, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
