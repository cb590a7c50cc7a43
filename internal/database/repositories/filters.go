package repositories

import "github.com/uptrace/bun"

// FieldFilter is one equality predicate of a dynamic query filter. A list of
// filters combines with logical AND.
type FieldFilter struct {
	Field string
	Value interface{}
}

// applyFilters appends every filter as an AND-ed equality clause, with the
// column qualified by the cards alias so joined relations cannot make it
// ambiguous.
func applyFilters(q *bun.SelectQuery, filters []FieldFilter) *bun.SelectQuery {
	for _, f := range filters {
		q = q.Where("c.? = ?", bun.Ident(f.Field), f.Value)
	}
	return q
}
