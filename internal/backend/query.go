package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Filter is a single column predicate in PostgREST operator syntax.
type Filter struct {
	Column string
	Op     string // eq, neq, in
	Value  string
}

// Order is one ordering term. Nulls sort last only when NullsLast is set.
type Order struct {
	Column     string
	Descending bool
	NullsLast  bool
}

// Query composes a table read or write predicate. Values are chained
// immutably so a base query can be reused.
type Query struct {
	Table   string
	Columns string
	Filters []Filter
	OrExpr  string
	Orders  []Order
	LimitN  int
}

// From starts a query against table.
func From(table string) Query {
	return Query{Table: table, Columns: "*"}
}

// Select sets the column (and embedded resource) list.
func (q Query) Select(columns string) Query {
	q.Columns = columns
	return q
}

// Eq filters on column equality.
func (q Query) Eq(column string, value any) Query {
	q.Filters = append(q.Filters[:len(q.Filters):len(q.Filters)], Filter{Column: column, Op: "eq", Value: fmt.Sprint(value)})
	return q
}

// Neq filters on column inequality.
func (q Query) Neq(column string, value any) Query {
	q.Filters = append(q.Filters[:len(q.Filters):len(q.Filters)], Filter{Column: column, Op: "neq", Value: fmt.Sprint(value)})
	return q
}

// In filters column membership in values.
func (q Query) In(column string, values []string) Query {
	q.Filters = append(q.Filters[:len(q.Filters):len(q.Filters)], Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"})
	return q
}

// Or applies a disjunction expression in PostgREST syntax, e.g.
// "target_player_id.eq.5,type.eq.general".
func (q Query) Or(expr string) Query {
	q.OrExpr = expr
	return q
}

// OrderBy appends an ascending ordering term.
func (q Query) OrderBy(column string, nullsLast bool) Query {
	q.Orders = append(q.Orders[:len(q.Orders):len(q.Orders)], Order{Column: column, NullsLast: nullsLast})
	return q
}

// OrderByDesc appends a descending ordering term.
func (q Query) OrderByDesc(column string) Query {
	q.Orders = append(q.Orders[:len(q.Orders):len(q.Orders)], Order{Column: column, Descending: true})
	return q
}

// Limit caps the number of returned rows. Zero means no cap.
func (q Query) Limit(n int) Query {
	q.LimitN = n
	return q
}

// Values encodes the query as PostgREST request parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Columns != "" {
		v.Set("select", q.Columns)
	}
	for _, f := range q.Filters {
		v.Add(f.Column, f.Op+"."+f.Value)
	}
	if q.OrExpr != "" {
		v.Set("or", "("+q.OrExpr+")")
	}
	if len(q.Orders) > 0 {
		terms := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			term := o.Column
			if o.Descending {
				term += ".desc"
			} else {
				term += ".asc"
			}
			if o.NullsLast {
				term += ".nullslast"
			}
			terms = append(terms, term)
		}
		v.Set("order", strings.Join(terms, ","))
	}
	if q.LimitN > 0 {
		v.Set("limit", fmt.Sprint(q.LimitN))
	}
	return v
}
