package tracker

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the page size used when callers set none.
const DefaultPerPage = 50

// QueryParams builds the query string for list and get operations.
type QueryParams struct {
	Page    int
	PerPage int
	Order   string
	Expand  []string
	Filters map[string][]string
}

// NewQueryParams creates an empty query parameter builder.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithPage sets the page number.
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPerPage sets the page size.
func (q *QueryParams) WithPerPage(perPage int) *QueryParams {
	q.PerPage = perPage

	return q
}

// WithOrder sets the sort order, e.g. "+status" or "-updatedAt".
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// WithExpand appends embedded objects to include, e.g. "transitions".
func (q *QueryParams) WithExpand(fields ...string) *QueryParams {
	q.Expand = append(q.Expand, fields...)

	return q
}

// WithFilter appends filter values for a key.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues renders the parameters as URL query values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.PerPage > 0 {
		values.Set("perPage", strconv.Itoa(q.PerPage))
	}

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	if len(q.Expand) > 0 {
		values.Set("expand", strings.Join(q.Expand, ","))
	}

	for key, filterValues := range q.Filters {
		if len(filterValues) > 0 {
			values.Set(key, strings.Join(filterValues, ","))
		}
	}

	return values
}
