package store

import "errors"

var (
	// ErrMissingIndex means the store cannot satisfy a compound filter+sort
	// query because the backing secondary index does not exist. Callers are
	// expected to degrade to a simpler query instead of failing.
	ErrMissingIndex = errors.New("store: missing index for query")

	// ErrInvalidCursor means a pagination cursor could not be decoded.
	ErrInvalidCursor = errors.New("store: invalid cursor")
)

// IsMissingIndex reports whether err is the recoverable missing-index condition.
func IsMissingIndex(err error) bool {
	return errors.Is(err, ErrMissingIndex)
}
