// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows returned when the caller does
// not ask for a specific range.
const DefaultPageSize = 25

// MaxPageSize caps a single page regardless of what the caller asks for.
const MaxPageSize = 100

// Range is a skip/limit window over an ordered result set.
type Range struct {
	Skip  int64
	Limit int64
}

// ParseRange reads "start" (0-based index) and "count" query parameters
// into a Range. Missing or invalid values fall back to the first page;
// count is clamped to MaxPageSize.
func ParseRange(r *http.Request) Range {
	return NewRange(atoi(query.Get(r, "start")), atoi(query.Get(r, "count")))
}

// NewRange clamps raw start/count values into a valid Range.
func NewRange(start, count int) Range {
	if start < 0 {
		start = 0
	}
	if count <= 0 {
		count = DefaultPageSize
	}
	if count > MaxPageSize {
		count = MaxPageSize
	}
	return Range{Skip: int64(start), Limit: int64(count)}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
