// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged admin lists.
const PageSize = 50

// LimitPlusOne returns PageSize+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func LimitPlusOne() int64 { return int64(PageSize + 1) }

// ParseStart extracts the human-friendly "start" query parameter
// (1-based index). Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Result holds the output of TrimPage.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage reports pagination indicators for a page fetched with
// LimitPlusOne rows starting at 1-based offset start, and returns the
// number of rows to actually show. Callers slice their result to shown.
func TrimPage(fetched, start int) (shown int, res Result) {
	res.HasPrev = start > 1
	if fetched > PageSize {
		res.HasNext = true
		return PageSize, res
	}
	return fetched, res
}

// PrevStart and NextStart compute the start offsets for the pager links.
func PrevStart(start int) int {
	p := start - PageSize
	if p < 1 {
		return 1
	}
	return p
}

func NextStart(start int) int { return start + PageSize }
