package vecore

import (
	"errors"
	"fmt"
)

// Sentinel errors returned at the API boundary. Callers should compare
// against these with errors.Is, since operations wrap them with an
// operation-tagged *StoreError.
var (
	// ErrInvalidDimension is returned when a vector's length doesn't match
	// the database's fixed dimensions.
	ErrInvalidDimension = errors.New("invalid vector dimension")

	// ErrNotFound names a requested ID that has no vector record. No
	// operation returns it: DeleteByIDs ignores such ids and UpdateByID
	// skips them.
	ErrNotFound = errors.New("vector not found")

	// ErrInvalidVector is returned when vector data is empty or malformed.
	ErrInvalidVector = errors.New("invalid vector data")

	// ErrConnectionClosed is returned when operating on a closed connection.
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrInvalidConfig is returned when configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyQuery is returned when the search query vector is empty.
	ErrEmptyQuery = errors.New("empty query vector")

	// ErrInvalidTopK is returned when top_k is not positive.
	ErrInvalidTopK = errors.New("top_k must be positive")

	// ErrEmptyIDList is returned when DeleteByIDs is given no IDs.
	ErrEmptyIDList = errors.New("id list must not be empty")

	// ErrInvalidFilter is returned when a filter tree cannot be parsed.
	ErrInvalidFilter = errors.New("invalid filter expression")

	// ErrDimensionMismatch names a single record whose length disagrees
	// with the file's fixed dimensions. Insert does not return it: such a
	// record is skipped and left out of the inserted count.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNoChange names an update item that specifies neither a new vector
	// nor new metadata. UpdateByID does not return it: such an item is
	// left out of the updated count.
	ErrNoChange = errors.New("update item has neither vector nor metadata")
)

// StoreError wraps an error with the operation that produced it.
type StoreError struct {
	Op  string // Operation name, e.g. "insert", "search"
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("vecore: %v", e.Err)
	}
	return fmt.Sprintf("vecore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether the underlying error matches target.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps err with operation context. Returns nil if err is nil.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
