// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size for sheet listings.
const DefaultLimit = 20

// RelatedLimit is the smaller page size used for related-sheet panels.
const RelatedLimit = 3

// Options describes one requested page of a deterministic listing.
// Direction is the Mongo sort direction: 1 ascending, -1 descending.
type Options struct {
	Page      int
	Limit     int
	Sort      string
	Direction int
}

// Skip converts the 1-based page number into a document offset.
func (o Options) Skip() int64 {
	return int64(o.Limit) * int64(o.Page-1)
}

// FromRequest parses page/sort/direction query parameters. Invalid or
// missing values fall back to page 1, defaultSort ascending; sortable
// rejects sort keys the collection does not index.
func FromRequest(r *http.Request, defaultSort string, limit int, sortable func(string) bool) Options {
	o := Options{Page: 1, Limit: limit, Sort: defaultSort, Direction: 1}

	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		o.Page = n
	}
	if s := r.URL.Query().Get("sort"); s != "" && sortable != nil && sortable(s) {
		o.Sort = s
	}
	if r.URL.Query().Get("direction") == "-1" {
		o.Direction = -1
	}
	return o
}
