package libquery

import (
	"errors"
	"fmt"
	"slices"
)

// Pagination bounds. The engine can override both via options, these are the
// package defaults.
const (
	DefaultTake = 50
	MaxTake     = 500
)

// Query is a declarative description of one read request: entity kind, filter
// parameters, sort key, pagination and the relations to eager load. It is
// built with BuildQuery and validated by the engine before execution.
type Query struct {
	kind           EntityKind
	filters        map[string]any
	orderBy        string
	skip           int
	take           int
	takeSet        bool
	relations      []Relation
	withAggregates bool
}

func (q Query) Kind() EntityKind {
	return q.kind
}

func (q Query) Filters() map[string]any {
	return q.filters
}

func (q Query) OrderBy() string {
	return q.orderBy
}

func (q Query) Skip() int {
	return q.skip
}

// Take returns the requested page size and whether it was set explicitly.
// An explicit zero means "no limit", which the engine bounds by its max take.
func (q Query) Take() (int, bool) {
	return q.take, q.takeSet
}

func (q Query) Relations() []Relation {
	return q.relations
}

func (q Query) WithAggregates() bool {
	return q.withAggregates
}

// Limit resolves the effective LIMIT for this query given the engine's
// configured bounds: unset take falls back to defaultTake, an explicit zero
// take means "rest of the result set" bounded by maxTake.
func (q Query) Limit(defaultTake uint, maxTake uint) uint {
	if !q.takeSet {
		return defaultTake
	}

	if q.take == 0 {
		return maxTake
	}

	return uint(q.take)
}

// Validate checks the query against the schema metadata and the given take
// bound. All validation errors surface before any SQL executes.
func (q Query) Validate(maxTake uint) error {
	schema, schemaErr := SchemaFor(q.kind)
	if schemaErr != nil {
		return schemaErr
	}

	if _, buildErr := BuildPredicates(q.kind, q.filters); buildErr != nil {
		return buildErr
	}

	if q.orderBy != "" {
		if _, _, sortErr := ResolveSortKey(q.kind, q.orderBy); sortErr != nil {
			return sortErr
		}
	}

	if q.skip < 0 {
		return errors.Join(ErrInvalidPagination, fmt.Errorf("skip must not be negative, got %d", q.skip))
	}

	if q.take < 0 {
		return errors.Join(ErrInvalidPagination, fmt.Errorf("take must not be negative, got %d", q.take))
	}

	if q.take > int(maxTake) {
		return errors.Join(ErrInvalidPagination, fmt.Errorf("take %d exceeds the hard cap of %d", q.take, maxTake))
	}

	for _, relation := range q.relations {
		if _, ok := schema.Relations[relation]; !ok {
			return errors.Join(ErrUnknownRelation, fmt.Errorf("relation %q is not defined for entity kind %q", relation, q.kind))
		}
	}

	if q.withAggregates && q.kind != KindBook {
		return errors.Join(ErrAggregatesNotSupported, fmt.Errorf("entity kind: %q", q.kind))
	}

	return nil
}

/***** QueryBuilder *****/

// QueryBuilder assembles a Query. All methods are chainable on a value
// receiver, Finalize returns the immutable result.
type QueryBuilder struct {
	query Query
}

// BuildQuery starts a query for the given entity kind.
func BuildQuery(kind EntityKind) QueryBuilder {
	return QueryBuilder{query: Query{kind: kind, filters: map[string]any{}}}
}

// WithFilter adds one filter parameter. Parameter names carrying the
// membership suffix expect a list value.
func (b QueryBuilder) WithFilter(name string, value any) QueryBuilder {
	filters := make(map[string]any, len(b.query.filters)+1)
	for k, v := range b.query.filters {
		filters[k] = v
	}
	filters[name] = value
	b.query.filters = filters

	return b
}

// OrderBy sets the sort key. A leading "-" sorts descending.
func (b QueryBuilder) OrderBy(key string) QueryBuilder {
	b.query.orderBy = key

	return b
}

// Skip sets the result offset.
func (b QueryBuilder) Skip(n int) QueryBuilder {
	b.query.skip = n

	return b
}

// Take sets the page size. An explicit zero means "rest of the result set",
// bounded by the engine's hard cap.
func (b QueryBuilder) Take(n int) QueryBuilder {
	b.query.take = n
	b.query.takeSet = true

	return b
}

// Including requests relations to be eager loaded with the result.
// Duplicates are dropped, order is kept.
func (b QueryBuilder) Including(relation Relation, relations ...Relation) QueryBuilder {
	for _, rel := range append([]Relation{relation}, relations...) {
		if !slices.Contains(b.query.relations, rel) {
			b.query.relations = append(b.query.relations, rel)
		}
	}

	return b
}

// WithBookAggregates requests the derived per-book metrics
// (readers_avg_rating, average_borrowed_time). Only valid on Book queries.
func (b QueryBuilder) WithBookAggregates() QueryBuilder {
	b.query.withAggregates = true

	return b
}

// Finalize returns the assembled Query.
func (b QueryBuilder) Finalize() Query {
	return b.query
}
