package rest

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRange is returned when a caller supplies a date range whose lower
// bound is after its upper bound. It must be rejected before any data fetch.
var ErrInvalidRange = errors.New(`"from" must be <= "to"`)

// ValidateRange checks an inclusive YYYY-MM-DD range; empty bounds are open.
// Fixed-width ISO dates order lexically, so string comparison is safe here.
func ValidateRange(from, to string) error {
	if from != "" && to != "" && from > to {
		return ErrInvalidRange
	}
	return nil
}

// Pagination holds sanitized page/limit query values.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page/limit query parameters, applying the given
// default and maximum limit. Out-of-range values are clamped, not rejected.
func ParsePagination(query url.Values, defaultLimit, maxLimit int) Pagination {
	page := 1
	if v := query.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit := defaultLimit
	if v := query.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// ParseDateParam validates an optional YYYY-MM-DD query parameter.
// Returns "" when the parameter is absent.
func ParseDateParam(query url.Values, name string) (string, error) {
	v := strings.TrimSpace(query.Get(name))
	if v == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "", fmt.Errorf("%s must be a YYYY-MM-DD date", name)
	}
	return v, nil
}

// ParseBoolParam reads an optional boolean query parameter, tolerating the
// usual spellings. Returns nil when absent or unrecognized.
func ParseBoolParam(query url.Values, name string) *bool {
	v := strings.ToLower(strings.TrimSpace(query.Get(name)))
	if v == "" {
		return nil
	}
	var b bool
	switch v {
	case "true", "1", "yes", "y", "on":
		b = true
	case "false", "0", "no", "n", "off":
		b = false
	default:
		return nil
	}
	return &b
}
