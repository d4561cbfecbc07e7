package builder

import (
	"fmt"
)

// NotFoundError reports a required directory that is absent or is not a directory.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directory %q does not exist", e.Path)
}

// IOError wraps a filesystem failure with the operation that caused it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MinifyError is returned when a single file cannot be minified.
type MinifyError struct {
	Path string
	Err  error
}

func (e *MinifyError) Error() string {
	return fmt.Sprintf("minify %s: %v", e.Path, e.Err)
}

func (e *MinifyError) Unwrap() error {
	return e.Err
}
