package libquery

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// PredicateOp distinguishes the two supported filter semantics.
type PredicateOp string

const (
	OpEqual PredicateOp = "eq"
	OpIn    PredicateOp = "in"
)

// Predicate is a single column-level filter condition. Predicates are always
// combined with logical AND, there is no OR or nested grouping.
type Predicate struct {
	column string
	op     PredicateOp
	value  any
	values []any
}

func (p Predicate) Column() string {
	return p.column
}

func (p Predicate) Op() PredicateOp {
	return p.op
}

// Value returns the comparison value of an equality predicate.
func (p Predicate) Value() any {
	return p.value
}

// Values returns the member list of a membership predicate.
// An empty list is legal and matches zero rows.
func (p Predicate) Values() []any {
	return p.values
}

// BuildPredicates converts a mapping of filter parameters into a predicate
// list for the given entity kind: exactly one predicate per recognized
// parameter, sorted by column name so the generated SQL is deterministic.
//
// A parameter carrying the membership suffix must hold a slice or array
// value, anything else fails with ErrInvalidFilterValue - values are
// validated, never coerced.
func BuildPredicates(kind EntityKind, params map[string]any) ([]Predicate, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	predicates := make([]Predicate, 0, len(params))

	for _, name := range names {
		ref, resolveErr := ResolveFilterField(kind, name)
		if resolveErr != nil {
			return nil, resolveErr
		}

		value := params[name]

		if !ref.Membership {
			predicates = append(predicates, Predicate{column: ref.Column, op: OpEqual, value: value})
			continue
		}

		members, membersErr := memberList(kind, name, value)
		if membersErr != nil {
			return nil, membersErr
		}

		predicates = append(predicates, Predicate{column: ref.Column, op: OpIn, values: members})
	}

	slices.SortStableFunc(predicates, func(a, b Predicate) int {
		if a.column > b.column {
			return 1
		}

		if a.column < b.column {
			return -1
		}

		return 0
	})

	return predicates, nil
}

// memberList validates that a membership-marked parameter received a sequence
// and expands it into a []any. Strings and byte slices do not count as
// sequences here even though reflection would iterate them.
func memberList(kind EntityKind, name string, value any) ([]any, error) {
	rv := reflect.ValueOf(value)

	isSequence := rv.IsValid() &&
		(rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) &&
		rv.Type() != reflect.TypeOf([]byte(nil))

	if !isSequence {
		return nil, errors.Join(
			ErrInvalidFilterValue,
			fmt.Errorf("field %q of entity kind %q expects a list, got %T", name, kind, value))
	}

	members := make([]any, rv.Len())
	for i := range rv.Len() {
		members[i] = rv.Index(i).Interface()
	}

	return members, nil
}
