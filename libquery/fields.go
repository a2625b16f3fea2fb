package libquery

import (
	"errors"
	"fmt"
	"strings"
)

// MembershipSuffix marks a filter parameter as "value is member of list"
// instead of exact equality, e.g. "id_in" vs. "id".
const MembershipSuffix = "_in"

// ColumnRef is the result of resolving an external filter parameter name:
// the concrete column to filter on and whether the parameter carries
// list-membership semantics.
type ColumnRef struct {
	Column     string
	Membership bool
}

// The per-entity whitelists mapping external filter parameter names to
// columns. Only names listed here are accepted, everything else fails with
// ErrUnknownFilterField. The mappings are checked against the schema
// metadata at engine startup, see ValidateFieldMappings.
var filterFields = map[EntityKind]map[string]ColumnRef{
	KindUser: {
		"is_active":  {Column: "is_active"},
		"id":         {Column: "id"},
		"first_name": {Column: "first_name"},
		"last_name":  {Column: "last_name"},
		"email":      {Column: "email"},
		"id_in":      {Column: "id", Membership: true},
	},
	KindBook: {
		"author": {Column: "author"},
		"title":  {Column: "title"},
		"id_in":  {Column: "id", Membership: true},
	},
	KindBorrowRecord: {
		"user_id_in": {Column: "user_id", Membership: true},
		"book_id_in": {Column: "book_id", Membership: true},
	},
	KindReview: {
		"rating":     {Column: "rating"},
		"user_id_in": {Column: "user_id", Membership: true},
		"book_id_in": {Column: "book_id", Membership: true},
	},
}

// ResolveFilterField maps an external filter parameter name to a column
// reference for the given entity kind. Unknown names are an error, they are
// never silently ignored.
func ResolveFilterField(kind EntityKind, name string) (ColumnRef, error) {
	fields, ok := filterFields[kind]
	if !ok {
		return ColumnRef{}, errors.Join(ErrUnknownEntityKind, fmt.Errorf("entity kind: %q", kind))
	}

	ref, ok := fields[name]
	if !ok {
		return ColumnRef{}, errors.Join(ErrUnknownFilterField, fmt.Errorf("field %q is not filterable for entity kind %q", name, kind))
	}

	return ref, nil
}

// ResolveSortKey maps an order_by key to a column and direction for the given
// entity kind. A leading "-" selects descending order. Every scalar column of
// the entity is sortable.
func ResolveSortKey(kind EntityKind, key string) (column string, descending bool, err error) {
	schema, schemaErr := SchemaFor(kind)
	if schemaErr != nil {
		return "", false, schemaErr
	}

	column = key
	if strings.HasPrefix(key, "-") {
		descending = true
		column = key[1:]
	}

	if !schema.HasColumn(column) {
		return "", false, errors.Join(ErrUnknownSortField, fmt.Errorf("field %q is not sortable for entity kind %q", key, kind))
	}

	return column, descending, nil
}

// ValidateFieldMappings checks every whitelist entry against the schema
// metadata: the mapped column must exist and the membership flag must agree
// with the parameter's suffix. Engine constructors run this once at startup
// so a drifting whitelist fails fast instead of producing broken SQL.
func ValidateFieldMappings() error {
	for _, kind := range AllKinds() {
		schema, err := SchemaFor(kind)
		if err != nil {
			return err
		}

		for name, ref := range filterFields[kind] {
			if !schema.HasColumn(ref.Column) {
				return fmt.Errorf("filter field %q of entity kind %q maps to unknown column %q", name, kind, ref.Column)
			}

			if ref.Membership != strings.HasSuffix(name, MembershipSuffix) {
				return fmt.Errorf("filter field %q of entity kind %q disagrees with the membership suffix", name, kind)
			}
		}
	}

	return nil
}
