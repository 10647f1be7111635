package transport

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Ordering is a single sort key parsed from `field` or `-field`.
type Ordering struct {
	Field string
	Desc  bool
}

func (o Ordering) SQL() string {
	if o.Desc {
		return o.Field + " DESC"
	}
	return o.Field + " ASC"
}

// ListParams carries the query parameters shared by every list endpoint.
type ListParams struct {
	Search   string
	Ordering Ordering
	Limit    int
	Offset   int
}

// ParseListParams reads search, ordering, limit and offset. An ordering field outside allowed
// falls back to def. Out of range limits are clamped.
func ParseListParams(r *http.Request, allowed []string, def Ordering) ListParams {
	q := r.URL.Query()
	p := ListParams{
		Search:   strings.TrimSpace(q.Get("search")),
		Ordering: def,
		Limit:    DefaultLimit,
	}

	if raw := q.Get("ordering"); raw != "" {
		o := Ordering{Field: strings.TrimPrefix(raw, "-"), Desc: strings.HasPrefix(raw, "-")}
		for _, f := range allowed {
			if f == o.Field {
				p.Ordering = o
				break
			}
		}
	}

	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		p.Limit = l
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		p.Offset = o
	}
	return p
}

// QueryInt64 returns the parsed int64 query parameter or nil when absent or malformed.
func QueryInt64(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// QueryBool accepts true/false/1/0 and returns nil for anything else.
func QueryBool(r *http.Request, key string) *bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}

// Page is the response envelope of list endpoints.
type Page[T any] struct {
	Results []T   `json:"results"`
	Count   int64 `json:"count"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
}

func NewPage[T any](results []T, count int64, p ListParams) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Results: results, Count: count, Limit: p.Limit, Offset: p.Offset}
}
