package table

import (
	"html/template"
	"unicode/utf8"
)

// Column describes one column of a table.
type Column[T any] struct {
	Key      string
	Header   string
	Sortable bool
	Cell     func(T) template.HTML
}

// Text is a sortable column showing an escaped string.
func Text[T any](key, header string, value func(T) string) Column[T] {
	return Column[T]{
		Key:      key,
		Header:   header,
		Sortable: true,
		Cell: func(row T) template.HTML {
			return template.HTML(template.HTMLEscapeString(value(row)))
		},
	}
}

// Display is a column rendered from markup; it cannot be sorted.
func Display[T any](key, header string, cell func(T) template.HTML) Column[T] {
	return Column[T]{Key: key, Header: header, Cell: cell}
}

// Truncate shortens s to its first n characters followed by "..".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ".."
}
