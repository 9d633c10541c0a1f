package table

import (
	"html/template"
	"sort"
)

// View is everything a template needs to render a table.
type View struct {
	Path    string
	Headers []Header
	Rows    [][]template.HTML

	// HasData is false until a page has been received.
	HasData bool
	Empty   bool
	// Loading reports that the shown rows belong to an earlier request
	// while the current one is still running.
	Loading bool
	Err     string
	// Redirect is set when the session expired while loading.
	Redirect string

	Page      int
	PageCount int
	PageSize  int
	TotalDocs int
	HasPrev   bool
	HasNext   bool
	First     string
	Prev      string
	Next      string
	Last      string
	PageSizes []PageSizeOption

	Search            string
	SearchPlaceholder string
	Hidden            []HiddenField

	ColumnCount int
	Summary     string
}

// Header is one column header.
type Header struct {
	Key       string
	Label     string
	Sortable  bool
	Direction string
	Link      string
}

// PageSizeOption is one entry of the page size selector.
type PageSizeOption struct {
	Size     int
	Selected bool
	Link     string
}

// HiddenField is carried by the search form so a search keeps the other
// table parameters.
type HiddenField struct {
	Name  string
	Value string
}

func sortHidden(fields []HiddenField) {
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Name != fields[j].Name {
			return fields[i].Name < fields[j].Name
		}
		return fields[i].Value < fields[j].Value
	})
}
