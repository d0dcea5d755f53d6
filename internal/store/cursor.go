package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// CursorVersion is the current cursor schema version.
const CursorVersion = 1

// Cursor marks a position in one specific retrieval order. It is opaque to
// callers: encode it into a response, decode it from the next request.
// A cursor is only meaningful for the query shape that produced it.
type Cursor struct {
	Version int `json:"v"`

	// Keyset position of the last item returned.
	CreatedAt time.Time `json:"created_at"`
	ID        uint      `json:"id"`

	// AxisValue is set for flavor-threshold queries, which page by the
	// filtered axis rather than by recency.
	AxisValue *float64 `json:"axis_value,omitempty"`
}

// Encode serializes the cursor to a base64 JSON string. A nil cursor
// encodes to "".
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses a cursor previously produced by Encode. An empty
// string decodes to nil (first page).
func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.Version != CursorVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidCursor, c.Version)
	}
	return &c, nil
}
