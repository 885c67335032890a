// Package pagination turns page/limit/search query parameters into store
// queries and wraps result pages in the list envelope.
package pagination

import (
	"math"
	"regexp"
	"strings"

	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage bounds the page number so the skip always fits an int64.
	MaxPage = 1_000_000
)

type Query struct {
	Page   int
	Limit  int
	Search string
}

func (q Query) Skip() int64 {
	page, limit := int64(min(q.Page, MaxPage)), int64(q.Limit)
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}

// FromRequest reads page, limit and search. Missing or unusable values fall
// back to the defaults and the limit is capped at maxLimit.
func FromRequest(c *gin.Context, defaultLimit, maxLimit int) Query {
	return Parse(c.Query("page"), c.Query("limit"), c.Query("search"), defaultLimit, maxLimit)
}

func Parse(page, limit, search string, defaultLimit, maxLimit int) Query {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}

	q := Query{
		Page:   utils.ParseIntDefault(strings.TrimSpace(page), DefaultPage),
		Limit:  utils.ParseIntDefault(strings.TrimSpace(limit), defaultLimit),
		Search: strings.TrimSpace(search),
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// SearchFilter matches the search term case-insensitively against any of the
// fields. An empty search matches everything.
func (q Query) SearchFilter(fields ...string) bson.M {
	if q.Search == "" || len(fields) == 0 {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(q.Search)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

type Page[T any] struct {
	Data         []T   `json:"data"`
	Page         int   `json:"page"`
	PerPage      int   `json:"perPage"`
	CurrentCount int   `json:"currentCount"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
}

func NewPage[T any](items []T, q Query, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	return Page[T]{
		Data:         items,
		Page:         q.Page,
		PerPage:      limit,
		CurrentCount: len(items),
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
		TotalItems:   total,
	}
}
