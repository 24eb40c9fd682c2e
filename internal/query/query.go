// Package query describes list predicates and ordering once and renders them
// either as SQL for the Postgres store or as Go predicates for the memory
// store.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidSortKey is returned by resource builders for sort values outside
// their enum. Reaching it means a caller bypassed enum parsing.
var ErrInvalidSortKey = errors.New("invalid sort key")

type op int

const (
	opContainsFold op = iota + 1
	opAtLeast
	opAtMost
	opEqual
)

// Cond is one conjunct of a Spec. The zero Cond matches everything and is
// dropped by Spec.Where.
type Cond[T any] struct {
	expr  string
	op    op
	arg   any
	match func(T) bool
}

// ContainsFold matches when get(item) contains needle, ignoring case.
// An empty needle matches everything.
func ContainsFold[T any](expr, needle string, get func(T) string) Cond[T] {
	if needle == "" {
		return Cond[T]{}
	}
	lowered := strings.ToLower(needle)
	return Cond[T]{
		expr: expr,
		op:   opContainsFold,
		arg:  "%" + likeEscaper.Replace(needle) + "%",
		match: func(item T) bool {
			return strings.Contains(strings.ToLower(get(item)), lowered)
		},
	}
}

// AtLeast is an inclusive lower bound; a nil bound matches everything.
func AtLeast[T any, V cmp.Ordered](expr string, min *V, get func(T) V) Cond[T] {
	if min == nil {
		return Cond[T]{}
	}
	bound := *min
	return Cond[T]{
		expr:  expr,
		op:    opAtLeast,
		arg:   bound,
		match: func(item T) bool { return get(item) >= bound },
	}
}

// AtMost is an inclusive upper bound; a nil bound matches everything.
func AtMost[T any, V cmp.Ordered](expr string, max *V, get func(T) V) Cond[T] {
	if max == nil {
		return Cond[T]{}
	}
	bound := *max
	return Cond[T]{
		expr:  expr,
		op:    opAtMost,
		arg:   bound,
		match: func(item T) bool { return get(item) <= bound },
	}
}

func Equal[T any, V comparable](expr string, value V, get func(T) V) Cond[T] {
	return Cond[T]{
		expr:  expr,
		op:    opEqual,
		arg:   value,
		match: func(item T) bool { return get(item) == value },
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Sort is a named ordering. The name is what list responses echo back.
type Sort[T any] struct {
	name    string
	expr    string
	desc    bool
	compare func(a, b T) int
}

func Asc[T any, K cmp.Ordered](name, expr string, key func(T) K) Sort[T] {
	return Sort[T]{
		name:    name,
		expr:    expr,
		compare: func(a, b T) int { return cmp.Compare(key(a), key(b)) },
	}
}

func Desc[T any, K cmp.Ordered](name, expr string, key func(T) K) Sort[T] {
	return Sort[T]{
		name:    name,
		expr:    expr,
		desc:    true,
		compare: func(a, b T) int { return cmp.Compare(key(b), key(a)) },
	}
}

// Spec is a conjunction of conditions plus one ordering.
type Spec[T any] struct {
	conds []Cond[T]
	sort  Sort[T]
}

// Where returns a copy of s with the active conditions appended.
func (s Spec[T]) Where(conds ...Cond[T]) Spec[T] {
	out := Spec[T]{conds: slices.Clone(s.conds), sort: s.sort}
	for _, c := range conds {
		if c.match != nil {
			out.conds = append(out.conds, c)
		}
	}
	return out
}

// Sorted returns a copy of s ordered by sort.
func (s Spec[T]) Sorted(sort Sort[T]) Spec[T] {
	return Spec[T]{conds: slices.Clone(s.conds), sort: sort}
}

// OrderedBy is the name of the ordering in effect.
func (s Spec[T]) OrderedBy() string {
	return s.sort.name
}

// SQL renders the WHERE clause with positional parameters starting at $next.
// It returns "" when there is nothing to filter on.
func (s Spec[T]) SQL(next int) (string, []any) {
	if len(s.conds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(s.conds))
	args := make([]any, 0, len(s.conds))
	for _, c := range s.conds {
		var operator string
		switch c.op {
		case opContainsFold:
			operator = "ILIKE"
		case opAtLeast:
			operator = ">="
		case opAtMost:
			operator = "<="
		case opEqual:
			operator = "="
		}
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", c.expr, operator, next))
		args = append(args, c.arg)
		next++
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// OrderSQL renders the ORDER BY clause. tiebreak keeps equal keys in storage
// order.
func (s Spec[T]) OrderSQL(tiebreak string) string {
	if s.sort.expr == "" {
		return "ORDER BY " + tiebreak
	}
	dir := "ASC"
	if s.sort.desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, %s", s.sort.expr, dir, tiebreak)
}

// Matches reports whether item satisfies every condition.
func (s Spec[T]) Matches(item T) bool {
	for _, c := range s.conds {
		if !c.match(item) {
			return false
		}
	}
	return true
}

// Apply filters items and stable-sorts the survivors. items must already be
// in storage order.
func (s Spec[T]) Apply(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if s.Matches(item) {
			out = append(out, item)
		}
	}
	if s.sort.compare != nil {
		slices.SortStableFunc(out, s.sort.compare)
	}
	return out
}
