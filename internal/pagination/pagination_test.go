package pagination

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p, err := Parse(Query{}, TweetSort)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Equal(t, "tweets.created_at DESC", p.OrderClause())
	assert.Equal(t, 0, p.Offset())
}

func TestParseLimitBounds(t *testing.T) {
	for _, limit := range []string{"0", "51", "-3", "abc", "1.5"} {
		_, err := Parse(Query{Limit: limit}, nil)
		assert.True(t, errors.Is(err, ErrInvalidLimit), "limit=%s", limit)
	}
	for _, limit := range []string{"1", "50"} {
		_, err := Parse(Query{Limit: limit}, nil)
		assert.NoError(t, err, "limit=%s", limit)
	}
}

func TestParsePageBounds(t *testing.T) {
	_, err := Parse(Query{Page: "0"}, nil)
	assert.ErrorIs(t, err, ErrInvalidPage)

	p, err := Parse(Query{Page: "3", Limit: "20"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Offset())

	_, err = Parse(Query{Page: strconv.Itoa(math.MaxInt/10 + 2), Limit: "10"}, VideoSearchSort)
	assert.ErrorIs(t, err, ErrInvalidPage)

	p, err = Parse(Query{Page: strconv.Itoa(math.MaxInt/10 + 1), Limit: "10"}, nil)
	require.NoError(t, err)
	assert.Positive(t, p.Offset())
}

func TestParseSortWhitelist(t *testing.T) {
	_, err := Parse(Query{SortBy: "password"}, VideoSearchSort)
	assert.ErrorIs(t, err, ErrInvalidSortBy)

	_, err = Parse(Query{SortOrder: "sideways"}, VideoSearchSort)
	assert.ErrorIs(t, err, ErrInvalidSortOrder)

	_, err = Parse(Query{SortBy: "duration"}, ChannelVideoSort)
	assert.ErrorIs(t, err, ErrInvalidSortBy)

	p, err := Parse(Query{SortBy: "views", SortOrder: "ASC"}, VideoSearchSort)
	require.NoError(t, err)
	assert.Equal(t, "videos.views ASC", p.OrderClause())
}

func TestNewMeta(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		pages       int64
		next, prev  bool
	}{
		{1, 10, 0, 0, false, false},
		{1, 10, 10, 1, false, false},
		{1, 10, 11, 2, true, false},
		{2, 10, 11, 2, false, true},
		{3, 10, 11, 2, false, true},
		{1, 1, 5, 5, true, false},
	}
	for _, c := range cases {
		m := NewMeta(Params{Page: c.page, Limit: c.limit}, c.total)
		assert.Equal(t, c.pages, m.TotalPages, "%+v", c)
		assert.Equal(t, c.next, m.HasNextPage, "%+v", c)
		assert.Equal(t, c.prev, m.HasPrevPage, "%+v", c)
	}
}

func TestNewPageNeverNil(t *testing.T) {
	page := NewPage[int](nil, Params{Page: 1, Limit: 10}, 0)
	assert.NotNil(t, page.Items)
	assert.Len(t, page.Items, 0)
}
