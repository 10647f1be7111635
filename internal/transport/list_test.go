package transport

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fields = []string{"name", "created_at"}

func TestParseListParamsDefaults(t *testing.T) {
	p := ParseListParams(httptest.NewRequest("GET", "/", nil), fields, Ordering{Field: "created_at", Desc: true})

	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, "created_at DESC", p.Ordering.SQL())
}

func TestParseListParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/?search=%20acme%20&ordering=-name&limit=500&offset=40", nil)
	p := ParseListParams(r, fields, Ordering{Field: "created_at"})

	assert.Equal(t, "acme", p.Search)
	assert.Equal(t, Ordering{Field: "name", Desc: true}, p.Ordering)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 40, p.Offset)
}

func TestParseListParamsIgnoresUnknownOrdering(t *testing.T) {
	r := httptest.NewRequest("GET", "/?ordering=password_hash&limit=-1&offset=x", nil)
	p := ParseListParams(r, fields, Ordering{Field: "name"})

	assert.Equal(t, Ordering{Field: "name"}, p.Ordering)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest("GET", "/?company=7&active=false&bad=x", nil)

	require.NotNil(t, QueryInt64(r, "company"))
	assert.Equal(t, int64(7), *QueryInt64(r, "company"))
	assert.Nil(t, QueryInt64(r, "bad"))
	assert.Nil(t, QueryInt64(r, "missing"))

	require.NotNil(t, QueryBool(r, "active"))
	assert.False(t, *QueryBool(r, "active"))
	assert.Nil(t, QueryBool(r, "missing"))
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a"}, 12, ListParams{Limit: 5, Offset: 10})
	assert.Equal(t, int64(12), p.Count)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 10, p.Offset)

	empty := NewPage[string](nil, 0, ListParams{Limit: 5})
	assert.NotNil(t, empty.Results)
}
