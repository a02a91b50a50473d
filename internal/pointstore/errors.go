package pointstore

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrPathNotFound is returned when a persisted file cannot be read.
type ErrPathNotFound struct {
	Path string
}

func (e *ErrPathNotFound) Error() string {
	return fmt.Sprintf("pointstore: path not found: %s", e.Path)
}

// ErrSerde wraps a codec (CBOR) encode/decode failure.
type ErrSerde struct {
	Op  string
	Err error
}

func (e *ErrSerde) Error() string {
	return fmt.Sprintf("pointstore: serde error during %s: %v", e.Op, e.Err)
}

func (e *ErrSerde) Unwrap() error { return e.Err }

// ErrPointNotFound is returned when a point ID lookup misses.
type ErrPointNotFound struct {
	ID uuid.UUID
}

func (e *ErrPointNotFound) Error() string {
	return fmt.Sprintf("pointstore: point %s not found", e.ID)
}

// ErrDimensionMismatch is returned when a vector's length does not match
// the store's fixed dimension.
type ErrDimensionMismatch struct {
	Got, Want int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("pointstore: vector length %d does not match dimension %d", e.Got, e.Want)
}
