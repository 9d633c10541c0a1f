package table

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Console URL parameters carrying the table state.
const (
	ParamPage   = "page"
	ParamSize   = "size"
	ParamSearch = "q"
	ParamSort   = "sort"
	ParamOrder  = "order"
)

// Options are the paging defaults of a table and the fields it may be
// sorted by.
type Options struct {
	DefaultPageSize int
	PageSizeOptions []int
	Sortable        []string
}

// DefaultOptions returns the defaults used when a table sets none.
func DefaultOptions() Options {
	return Options{DefaultPageSize: 10, PageSizeOptions: []int{10, 20, 30, 40, 50}}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if len(o.PageSizeOptions) == 0 {
		o.PageSizeOptions = d.PageSizeOptions
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = d.DefaultPageSize
	}
	return o
}

// State is the UI state of a table. PageIndex is zero-based; at most one
// field is sorted at a time.
type State struct {
	PageIndex int
	PageSize  int
	Search    string
	SortField string
	SortDesc  bool
	// Filters are screen parameters outside the table, such as the
	// advertisement status. They are kept on every table link.
	Filters url.Values
}

// ParseState reads the table state from the console URL. Unknown page
// sizes fall back to the default; fields outside opts.Sortable are not
// sorted by.
func ParseState(q url.Values, opts Options) State {
	opts = opts.normalized()
	s := State{PageSize: opts.DefaultPageSize}

	if page, err := strconv.Atoi(q.Get(ParamPage)); err == nil && page > 1 {
		s.PageIndex = page - 1
	}
	if size, err := strconv.Atoi(q.Get(ParamSize)); err == nil && slices.Contains(opts.PageSizeOptions, size) {
		s.PageSize = size
	}
	s.Search = strings.TrimSpace(q.Get(ParamSearch))
	if field := q.Get(ParamSort); field != "" && slices.Contains(opts.Sortable, field) {
		s.SortField = field
		s.SortDesc = q.Get(ParamOrder) == "desc"
	}
	return s
}

// Encode returns the console URL parameters of s.
func (s State) Encode() url.Values {
	q := url.Values{}
	for k, v := range s.Filters {
		q[k] = append([]string(nil), v...)
	}
	q.Set(ParamPage, strconv.Itoa(s.PageIndex+1))
	q.Set(ParamSize, strconv.Itoa(s.PageSize))
	if s.Search != "" {
		q.Set(ParamSearch, s.Search)
	}
	if s.SortField != "" {
		q.Set(ParamSort, s.SortField)
		order := "asc"
		if s.SortDesc {
			order = "desc"
		}
		q.Set(ParamOrder, order)
	}
	return q
}

// WithPage returns s showing page index i.
func (s State) WithPage(i int) State {
	s.PageIndex = max(i, 0)
	return s
}

// WithPageSize returns s with page size n, back on the first page.
func (s State) WithPageSize(n int) State {
	s.PageSize = n
	s.PageIndex = 0
	return s
}

// WithSearch returns s filtered by text, back on the first page.
func (s State) WithSearch(text string) State {
	s.Search = text
	s.PageIndex = 0
	return s
}

// ToggleSort cycles the sort of field: unsorted, ascending, descending,
// unsorted. Sorting another field replaces the current sort.
func (s State) ToggleSort(field string) State {
	switch {
	case s.SortField != field:
		s.SortField, s.SortDesc = field, false
	case !s.SortDesc:
		s.SortDesc = true
	default:
		s.SortField, s.SortDesc = "", false
	}
	return s
}

// Params are the query parameters of a list call.
type Params struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Filters   url.Values
}

// Params derives the list call parameters: the wire page is one-based.
func (s State) Params() Params {
	order := "asc"
	if s.SortField != "" && s.SortDesc {
		order = "desc"
	}
	return Params{
		Page:      s.PageIndex + 1,
		Limit:     s.PageSize,
		Search:    s.Search,
		SortBy:    s.SortField,
		SortOrder: order,
		Filters:   s.Filters,
	}
}

// Values returns the wire form of p. Filters are not included.
func (p Params) Values() url.Values {
	return url.Values{
		"page":      {strconv.Itoa(p.Page)},
		"limit":     {strconv.Itoa(p.Limit)},
		"search":    {p.Search},
		"sortBy":    {p.SortBy},
		"sortOrder": {p.SortOrder},
	}
}

// Filter returns the value of filter key.
func (p Params) Filter(key string) string {
	return p.Filters.Get(key)
}
