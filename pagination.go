package attio

// Page is one page of a listed resource collection. Cursor is the
// server's opaque cursor for the next page, threaded through unmodified;
// it is only meaningful while HasMore is true.
type Page[T any] struct {
	Data    []T
	HasMore bool
	Cursor  string
}

// Sort orders a list query by one attribute.
type Sort struct {
	Attribute string `json:"attribute"`
	Direction string `json:"direction"` // "asc" or "desc"
}

// ListParams are the common parameters of every list operation. The
// zero value lists from the beginning with the server's default page
// size.
type ListParams struct {
	Filter map[string]any
	Sorts  []Sort
	Cursor string
	Limit  int
}

// queryBody renders the params as a POST query request body.
func (p ListParams) queryBody() map[string]any {
	body := map[string]any{}
	if p.Filter != nil {
		body["filter"] = p.Filter
	}
	if len(p.Sorts) > 0 {
		body["sorts"] = p.Sorts
	}
	if p.Cursor != "" {
		body["cursor"] = p.Cursor
	}
	if p.Limit > 0 {
		body["limit"] = p.Limit
	}
	return body
}
