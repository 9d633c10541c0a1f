package table

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/querycache"
)

type row struct {
	ID   string
	Name string
}

func TestParamsDerivation(t *testing.T) {
	s := State{PageIndex: 2, PageSize: 20}

	p := s.Params()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, "", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)

	p = s.ToggleSort("name").Params()
	assert.Equal(t, "name", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)

	p = s.ToggleSort("name").ToggleSort("name").Params()
	assert.Equal(t, "desc", p.SortOrder)

	v := p.Values()
	assert.Equal(t, "3", v.Get("page"))
	assert.Equal(t, "20", v.Get("limit"))
	assert.Contains(t, v, "search")
}

func TestToggleSortCycle(t *testing.T) {
	s := State{}

	s = s.ToggleSort("name")
	assert.Equal(t, "name", s.SortField)
	assert.False(t, s.SortDesc)

	s = s.ToggleSort("name")
	assert.True(t, s.SortDesc)

	s = s.ToggleSort("name")
	assert.Empty(t, s.SortField)
	assert.False(t, s.SortDesc)

	s = s.ToggleSort("name").ToggleSort("email")
	assert.Equal(t, "email", s.SortField)
	assert.False(t, s.SortDesc)
}

func TestTransitionsResetPage(t *testing.T) {
	s := State{PageIndex: 4, PageSize: 10}

	assert.Equal(t, 0, s.WithSearch("bike").PageIndex)
	assert.Equal(t, 0, s.WithPageSize(50).PageIndex)
	assert.Equal(t, 50, s.WithPageSize(50).PageSize)
	assert.Equal(t, 0, s.WithPage(-3).PageIndex)
	assert.Equal(t, 7, s.WithPage(7).PageIndex)
}

func TestParseStateRoundTrip(t *testing.T) {
	s := State{PageIndex: 1, PageSize: 20, Search: "car", SortField: "price", SortDesc: true, Filters: url.Values{"status": {"BLOCKED"}}}

	opts := DefaultOptions()
	opts.Sortable = []string{"price"}
	parsed := ParseState(s.Encode(), opts)
	parsed.Filters = s.Filters

	assert.Equal(t, s, parsed)
}

func TestParseStateDefaults(t *testing.T) {
	s := ParseState(url.Values{"page": {"-2"}, "size": {"7"}}, Options{DefaultPageSize: 5, PageSizeOptions: []int{5, 10}})

	assert.Equal(t, 0, s.PageIndex)
	assert.Equal(t, 5, s.PageSize)
	assert.Empty(t, s.SortField)
}

func TestParseStateIgnoresUnsortableField(t *testing.T) {
	opts := Options{Sortable: []string{"name"}}

	s := ParseState(url.Values{"sort": {"advertismentId"}, "order": {"desc"}}, opts)
	assert.Empty(t, s.SortField)
	assert.False(t, s.SortDesc)

	s = ParseState(url.Values{"sort": {"name"}, "order": {"desc"}}, opts)
	assert.Equal(t, "name", s.SortField)
	assert.True(t, s.SortDesc)
}

func TestLoadDoesNotSortByDisplayColumn(t *testing.T) {
	var got Params
	e := newEngine(func(_ context.Context, p Params) (model.TableResponse[row], error) {
		got = p
		return pageOf(nil, 1, 0, 0), nil
	})

	e.Load(context.Background(), querycache.New(0), e.State(url.Values{"sort": {"id"}, "order": {"asc"}}))

	assert.Empty(t, got.SortBy)
}

func TestSummary(t *testing.T) {
	meta := &model.PageMeta{TotalDocs: 25}

	assert.Equal(t, "Showing 11 to 20 of 25 results", Summary(State{PageIndex: 1, PageSize: 10}, meta))
	assert.Equal(t, "Showing 21 to 25 of 25 results", Summary(State{PageIndex: 2, PageSize: 10}, meta))
	assert.Equal(t, "Showing 0 to 0 of 0 results", Summary(State{PageSize: 10}, nil))
	assert.Equal(t, "Showing 1 to 0 of 0 results", Summary(State{PageSize: 10}, &model.PageMeta{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef..", Truncate("abcdefghij", 6))
	assert.Equal(t, "abc", Truncate("abc", 6))
}

func newEngine(fetch FetchFunc[row]) *Engine[row] {
	return New(Config[row]{
		Scope: "rows",
		Path:  "/rows",
		Columns: []Column[row]{
			Display("id", "ID", func(r row) template.HTML { return template.HTML(template.HTMLEscapeString(Truncate(r.ID, 6))) }),
			Text("name", "Name", func(r row) string { return r.Name }),
		},
		Fetch: fetch,
	})
}

func pageOf(rows []row, page, totalPages, totalDocs int) model.TableResponse[row] {
	return model.TableResponse[row]{
		PageMeta: model.PageMeta{Page: page, TotalPages: totalPages, TotalDocs: totalDocs, PageSize: 10},
		Data:     rows,
	}
}

func TestLoadRendersServerPage(t *testing.T) {
	var got Params
	e := newEngine(func(_ context.Context, p Params) (model.TableResponse[row], error) {
		got = p
		// Rows arrive in server order and are shown as is.
		return pageOf([]row{{ID: "zzz", Name: "<b>Zed</b>"}, {ID: "aaaaaa..", Name: "Ann"}}, 2, 3, 25), nil
	})
	state := e.State(url.Values{"page": {"2"}, "sort": {"name"}, "order": {"desc"}})

	v := e.Load(context.Background(), querycache.New(0), state)

	assert.Equal(t, 2, got.Page)
	assert.Equal(t, "name", got.SortBy)
	assert.Equal(t, "desc", got.SortOrder)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, template.HTML("&lt;b&gt;Zed&lt;/b&gt;"), v.Rows[0][1])
	assert.Equal(t, template.HTML("aaaaaa.."), v.Rows[1][0])
	assert.Equal(t, 3, v.PageCount)
	assert.True(t, v.HasPrev)
	assert.True(t, v.HasNext)
	assert.Equal(t, "Showing 11 to 20 of 25 results", v.Summary)
	assert.Equal(t, "Page 2 of 3", v.PageLabel())
	assert.False(t, v.Headers[0].Sortable)
	assert.Equal(t, "desc", v.Headers[1].Direction)
	assert.Contains(t, v.Last, "page=3")
	assert.Contains(t, v.First, "page=1")
}

func TestLoadHeaderLinksCycleSort(t *testing.T) {
	e := newEngine(func(context.Context, Params) (model.TableResponse[row], error) {
		return pageOf(nil, 1, 0, 0), nil
	})

	v := e.Load(context.Background(), querycache.New(0), e.State(url.Values{}))

	link, err := url.Parse(v.Headers[1].Link)
	require.NoError(t, err)
	assert.Equal(t, "name", link.Query().Get("sort"))
	assert.Equal(t, "asc", link.Query().Get("order"))
	assert.True(t, v.Empty)
	assert.False(t, v.HasNext)
	assert.Equal(t, "Showing 1 to 0 of 0 results", v.Summary)
}

func TestLoadError(t *testing.T) {
	e := newEngine(func(context.Context, Params) (model.TableResponse[row], error) {
		return model.TableResponse[row]{}, &apiclient.APIError{StatusCode: 500, Message: "database down"}
	})

	v := e.Load(context.Background(), querycache.New(0), e.State(url.Values{}))

	assert.Equal(t, "database down", v.Err)
	assert.False(t, v.HasData)
	assert.Empty(t, v.Redirect)
}

func TestLoadUnauthorizedSetsRedirect(t *testing.T) {
	e := newEngine(func(context.Context, Params) (model.TableResponse[row], error) {
		return model.TableResponse[row]{}, &apiclient.UnauthorizedError{RedirectTo: "/login?redirect=%2Frows", Err: &apiclient.APIError{StatusCode: 401}}
	})

	v := e.Load(context.Background(), querycache.New(0), e.State(url.Values{}))

	assert.Equal(t, "/login?redirect=%2Frows", v.Redirect)
}

func TestLoadKeepsPreviousPageWhileFetching(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	var calls atomic.Int32
	e := New(Config[row]{
		Scope:        "rows",
		Path:         "/rows",
		Columns:      []Column[row]{Text("name", "Name", func(r row) string { return r.Name })},
		RenderBudget: 20 * time.Millisecond,
		Fetch: func(_ context.Context, p Params) (model.TableResponse[row], error) {
			if calls.Add(1) > 1 {
				<-release
			}
			return pageOf([]row{{Name: fmt.Sprintf("page %d", p.Page)}}, p.Page, 3, 25), nil
		},
	})
	cache := querycache.New(0)

	first := e.Load(context.Background(), cache, e.State(url.Values{}))
	require.Equal(t, template.HTML("page 1"), first.Rows[0][0])

	next := e.Load(context.Background(), cache, e.State(url.Values{"page": {"2"}}))

	assert.True(t, next.Loading)
	assert.Equal(t, template.HTML("page 1"), next.Rows[0][0])
	assert.Equal(t, 2, next.Page)
	assert.Empty(t, next.Err)
}

func TestSearchFormKeepsOtherParams(t *testing.T) {
	e := newEngine(func(context.Context, Params) (model.TableResponse[row], error) {
		return pageOf(nil, 1, 0, 0), nil
	})
	state := e.State(url.Values{"size": {"20"}, "page": {"3"}})
	state.Filters = url.Values{"status": {"ACTIVE"}}

	v := e.Load(context.Background(), querycache.New(0), state)

	assert.ElementsMatch(t, []HiddenField{{Name: "size", Value: "20"}, {Name: "status", Value: "ACTIVE"}}, v.Hidden)
}

func TestKeyIncludesFilters(t *testing.T) {
	e := newEngine(nil)
	a := State{PageSize: 10, Filters: url.Values{"status": {"ACTIVE"}}}
	b := State{PageSize: 10, Filters: url.Values{"status": {"BLOCKED"}}}

	assert.NotEqual(t, e.Key(a), e.Key(b))
	assert.Equal(t, e.Key(a), e.Key(a.WithPage(0)))
}
