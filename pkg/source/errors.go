package source

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when the requested file does not exist at the
// requested ref.
type NotFoundError struct {
	Repo Repo
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s not found", e.Repo, e.Path)
}

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
