package pagination

import (
	"net/url"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 200
)

// Params holds limit/offset pagination inputs from controllers.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery reads limit/offset query values, falling back to defaults on
// absent or malformed input.
func FromQuery(values url.Values) Params {
	return Params{
		Limit:  NormalizeLimit(parseIntField(values.Get("limit"))),
		Offset: NormalizeOffset(parseIntField(values.Get("offset"))),
	}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func parseIntField(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
