// Package query holds the store-agnostic listing primitives: equality
// filters, a single ordering column and offset/limit paging. Repositories
// translate a Query into their own dialect.
package query

// Filter is an equality constraint on a named field.
type Filter struct {
	Field string
	Value interface{}
}

// Query describes one page of a listing.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Equal appends an equality filter and returns q for chaining.
func (q Query) Equal(field string, value interface{}) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// Value returns the value of the first filter on field.
func (q Query) Value(field string) (interface{}, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f.Value, true
		}
	}
	return nil, false
}
