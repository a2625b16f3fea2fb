// Package libquery provides the core abstractions of the library query
// engine: the relational schema model, the attribute mapper, the predicate
// builder and the declarative query request type.
//
// This package is pure - it holds no database connection and executes
// nothing. Engine packages (e.g. postgresengine) consume the types defined
// here to compose and run the actual SQL.
//
// The engine supports exactly four entity kinds (User, Book, BorrowRecord,
// Review) and their fixed relationships. Filter parameters are resolved
// against per-entity whitelists, parameters carrying the "_in" suffix use
// list-membership semantics, everything else is exact equality. All
// predicates combine with logical AND.
//
// Common usage pattern:
//
//	query := libquery.BuildQuery(libquery.KindUser).
//		WithFilter("is_active", true).
//		WithFilter("id_in", []int64{1, 2, 5}).
//		OrderBy("-last_name").
//		Skip(0).
//		Take(10).
//		Including(libquery.RelationReviews, libquery.RelationBorrowRecords).
//		Finalize()
//
//	users, err := store.FetchUsers(ctx, query)
//	if err != nil {
//		// handle error
//	}
package libquery
