// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is used when a list endpoint receives no "limit" parameter.
const DefaultLimit = 50

// ParseLimit reads the "limit" query parameter. Missing or invalid values
// yield def; values above max are clamped to max.
func ParseLimit(r *http.Request, def, max int) int {
	n, ok := parsePositive(query.Get(r, "limit"))
	if !ok {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}

// ParseOffset reads the "offset" query parameter. Missing, invalid or
// negative values yield 0.
func ParseOffset(r *http.Request) int {
	s := query.Get(r, "offset")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parsePositive(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
