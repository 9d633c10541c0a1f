package model

// Envelope wraps every successful API response.
type Envelope[T any] struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      T      `json:"data"`
}

// ErrorEnvelope is the body of a failed API response.
type ErrorEnvelope struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	ErrorSource string `json:"errorSource"`
	Errors      string `json:"errors"`
}

// PageMeta is the pagination metadata of a list response. TotalPages is
// computed by the server and never recomputed here.
type PageMeta struct {
	TotalDocs     int  `json:"totalDocs"`
	PageSize      int  `json:"pageSize"`
	TotalPages    int  `json:"totalPages"`
	Page          int  `json:"page"`
	PagingCounter int  `json:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"`
	PrevPage      *int `json:"prevPage"`
	NextPage      *int `json:"nextPage"`
}

// PageData is the data member of a list response.
type PageData[T any] struct {
	PageMeta
	Docs []T `json:"docs"`
}

// PaginatedEnvelope is the full list response.
type PaginatedEnvelope[T any] = Envelope[PageData[T]]

// TableResponse is a list response flattened for the table engine.
type TableResponse[T any] struct {
	PageMeta
	Data []T
}

// Flatten unwraps a paginated envelope into a table response.
func Flatten[T any](env PaginatedEnvelope[T]) TableResponse[T] {
	docs := env.Data.Docs
	if docs == nil {
		docs = []T{}
	}
	return TableResponse[T]{PageMeta: env.Data.PageMeta, Data: docs}
}
