// Package pagination implements opaque keyset cursors for feed-style
// listings. A cursor encodes the position after the last returned
// item as a (createdAt, uuid) pair, so already-returned items never
// reappear or shift when new rows are inserted ahead of the window.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Limit bounds for page sizes. Out-of-range or non-integer limits are
// a validation error, never silently clamped.
const (
	MinLimit     = 5
	MaxLimit     = 50
	DefaultLimit = 10
)

var (
	ErrBadCursor = errors.New("invalid cursor")
	ErrBadLimit  = fmt.Errorf("limit must be an integer between %d and %d", MinLimit, MaxLimit)
)

// Cursor anchors a page on the sort key of the last item returned:
// created_at descending, uuid ascending as the tie breaker.
type Cursor struct {
	CreatedAt int64  // ms since epoch of the last item
	UUID      string // uuid of the last item
}

// Encode renders the cursor as an opaque base64url string.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt, 10) + ":" + c.UUID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode parses a client-supplied cursor. Any malformed input yields
// ErrBadCursor; callers must surface that as a validation error
// rather than silently restarting from the first page.
func Decode(s string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrBadCursor
	}
	ms, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Cursor{}, ErrBadCursor
	}
	at, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || at < 0 {
		return Cursor{}, ErrBadCursor
	}
	return Cursor{CreatedAt: at, UUID: id}, nil
}

// ParseLimit validates the raw query value. An empty value selects
// DefaultLimit.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < MinLimit || n > MaxLimit {
		return 0, ErrBadLimit
	}
	return n, nil
}
