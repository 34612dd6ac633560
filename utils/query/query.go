package query

import (
	"strconv"
	"time"
)

// DateLayout is the accepted format for date_from / date_to parameters.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD query value. Empty or unparseable
// values are treated as absent, not as errors; the raw string is still
// echoed back to clients in filters_applied.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// ParseID parses a positive integer id parameter. Returns 0 when the
// value is empty or not a positive integer.
func ParseID(value string) uint {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
