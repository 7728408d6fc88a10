package query

import (
	"math"
	"strconv"
	"strings"
)

// Page is a 1-indexed page request
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page to >= 1 and limit into [1, maxLimit].
// A non-positive limit falls back to defaultLimit.
func NewPage(page, limit, defaultLimit, maxLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	// keeps (page-1)*limit representable
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return Page{Number: page, Limit: limit}
}

// ParsePage parses raw query values. Empty values take defaults; non-numeric
// values are rejected.
func ParsePage(pageStr, limitStr string, defaultLimit, maxLimit int) (Page, error) {
	page, err := parseOptionalInt("page", pageStr, 1)
	if err != nil {
		return Page{}, err
	}
	limit, err := parseOptionalInt("limit", limitStr, defaultLimit)
	if err != nil {
		return Page{}, err
	}
	return NewPage(page, limit, defaultLimit, maxLimit), nil
}

// ParseLimit parses a bare limit parameter, clamped into [1, maxLimit]
func ParseLimit(limitStr string, defaultLimit, maxLimit int) (int, error) {
	limit, err := parseOptionalInt("limit", limitStr, defaultLimit)
	if err != nil {
		return 0, err
	}
	return NewPage(1, limit, defaultLimit, maxLimit).Limit, nil
}

func parseOptionalInt(field, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParamError{Field: field, Message: field + " must be an integer"}
	}
	return v, nil
}

// Offset is the number of records skipped before this page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// PageInfo is the pagination metadata returned with a page of results
type PageInfo struct {
	CurrentPage int
	TotalPages  int
	Total       int
	HasNextPage bool
	HasPrevPage bool
	Limit       int
}

// Info computes page metadata for a result set of size total
func (p Page) Info(total int) PageInfo {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: p.Number < totalPages,
		HasPrevPage: p.Number > 1,
		Limit:       p.Limit,
	}
}

// Window returns the [start, end) bounds of this page within n items
func (p Page) Window(n int) (int, int) {
	start := p.Offset()
	if start < 0 || start > n {
		start = n
	}
	end := start + p.Limit
	if end < start || end > n {
		end = n
	}
	return start, end
}

// ParamError reports an invalid request parameter
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
