// Package table renders server-paginated lists. The server owns paging,
// sorting and searching: rows are shown as received and page counts come
// from the response.
package table

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/cayiba/cayiba-admin/internal/apiclient"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/querycache"
)

// FetchFunc loads one page of rows.
type FetchFunc[T any] func(ctx context.Context, p Params) (model.TableResponse[T], error)

// Config configures an Engine.
type Config[T any] struct {
	// Scope names the query cache entries of the table.
	Scope string
	// Path is the console path the table links point to.
	Path              string
	Columns           []Column[T]
	Fetch             FetchFunc[T]
	DefaultPageSize   int
	PageSizeOptions   []int
	SearchPlaceholder string
	// RenderBudget bounds how long Load waits for the current page before
	// showing the previous one.
	RenderBudget time.Duration
}

// Engine renders one kind of table.
type Engine[T any] struct {
	cfg  Config[T]
	opts Options
}

// New creates an Engine.
func New[T any](cfg Config[T]) *Engine[T] {
	opts := Options{DefaultPageSize: cfg.DefaultPageSize, PageSizeOptions: cfg.PageSizeOptions}.normalized()
	for _, col := range cfg.Columns {
		if col.Sortable {
			opts.Sortable = append(opts.Sortable, col.Key)
		}
	}
	cfg.DefaultPageSize = opts.DefaultPageSize
	cfg.PageSizeOptions = opts.PageSizeOptions
	if cfg.SearchPlaceholder == "" {
		cfg.SearchPlaceholder = "Search..."
	}
	return &Engine[T]{cfg: cfg, opts: opts}
}

// Options returns the paging options of the table.
func (e *Engine[T]) Options() Options {
	return e.opts
}

// State reads the table state from the console URL.
func (e *Engine[T]) State(q url.Values) State {
	return ParseState(q, e.opts)
}

// Key is the query cache key of state.
func (e *Engine[T]) Key(state State) querycache.Key {
	return querycache.NewKey(e.cfg.Scope, state.Params().Values().Encode(), state.Filters.Encode())
}

// Load fetches the page described by state through cache and builds its
// view.
func (e *Engine[T]) Load(ctx context.Context, cache *querycache.Cache, state State) View {
	params := state.Params()
	res := querycache.Query(ctx, cache, e.Key(state), e.cfg.RenderBudget,
		func(ctx context.Context) (model.TableResponse[T], error) {
			return e.cfg.Fetch(ctx, params)
		})

	v := e.view(state)
	v.Loading = res.Loading
	if res.Err != nil {
		if redirect, ok := apiclient.IsUnauthorized(res.Err); ok {
			v.Redirect = redirect
		}
		v.Err = apiclient.ReadMessage(res.Err)
		return v
	}
	if !res.HasData {
		return v
	}
	e.fill(&v, state, res.Data)
	return v
}

func (e *Engine[T]) view(state State) View {
	v := View{
		Path:              e.cfg.Path,
		Search:            state.Search,
		SearchPlaceholder: e.cfg.SearchPlaceholder,
		Page:              state.PageIndex + 1,
		PageSize:          state.PageSize,
		ColumnCount:       len(e.cfg.Columns),
		Summary:           Summary(state, nil),
	}

	for _, col := range e.cfg.Columns {
		h := Header{Key: col.Key, Label: col.Header, Sortable: col.Sortable}
		if col.Sortable {
			if state.SortField == col.Key {
				h.Direction = "asc"
				if state.SortDesc {
					h.Direction = "desc"
				}
			}
			h.Link = e.link(state.ToggleSort(col.Key))
		}
		v.Headers = append(v.Headers, h)
	}

	for _, size := range e.opts.PageSizeOptions {
		v.PageSizes = append(v.PageSizes, PageSizeOption{
			Size:     size,
			Selected: size == state.PageSize,
			Link:     e.link(state.WithPageSize(size)),
		})
	}

	hidden := state.WithSearch("").Encode()
	hidden.Del(ParamSearch)
	hidden.Del(ParamPage)
	for k, vals := range hidden {
		for _, val := range vals {
			v.Hidden = append(v.Hidden, HiddenField{Name: k, Value: val})
		}
	}
	sortHidden(v.Hidden)
	return v
}

func (e *Engine[T]) fill(v *View, state State, resp model.TableResponse[T]) {
	v.HasData = true
	v.Empty = len(resp.Data) == 0
	v.PageCount = resp.TotalPages
	v.TotalDocs = resp.TotalDocs
	v.Summary = Summary(state, &resp.PageMeta)

	for _, row := range resp.Data {
		cells := make([]template.HTML, 0, len(e.cfg.Columns))
		for _, col := range e.cfg.Columns {
			cells = append(cells, col.Cell(row))
		}
		v.Rows = append(v.Rows, cells)
	}

	v.HasPrev = state.PageIndex > 0
	v.HasNext = state.PageIndex < resp.TotalPages-1
	if v.HasPrev {
		v.First = e.link(state.WithPage(0))
		v.Prev = e.link(state.WithPage(state.PageIndex - 1))
	}
	if v.HasNext {
		v.Next = e.link(state.WithPage(state.PageIndex + 1))
		v.Last = e.link(state.WithPage(resp.TotalPages - 1))
	}
}

func (e *Engine[T]) link(state State) string {
	return e.cfg.Path + "?" + state.Encode().Encode()
}

// Summary is the row count line under a table. Without a response it reads
// "Showing 0 to 0 of 0 results".
func Summary(state State, meta *model.PageMeta) string {
	if meta == nil {
		return "Showing 0 to 0 of 0 results"
	}
	from := state.PageIndex*state.PageSize + 1
	to := min((state.PageIndex+1)*state.PageSize, meta.TotalDocs)
	return fmt.Sprintf("Showing %d to %d of %d results", from, to, meta.TotalDocs)
}

// PageLabel is the "Page X of Y" text of v.
func (v View) PageLabel() string {
	return "Page " + strconv.Itoa(v.Page) + " of " + strconv.Itoa(v.PageCount)
}
