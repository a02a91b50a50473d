package objectstore

import "fmt"

// ErrNotFound is returned when an object does not exist at the given path.
type ErrNotFound struct {
	Path string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("objectstore: not found: %s", e.Path)
}

// ErrRetriesExhausted wraps the last error after MaxAttempts failed calls.
type ErrRetriesExhausted struct {
	Attempts int
	Last     error
}

func (e *ErrRetriesExhausted) Error() string {
	return fmt.Sprintf("objectstore: giving up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ErrRetriesExhausted) Unwrap() error {
	return e.Last
}
