// Package postgresengine provides the PostgreSQL implementation of the
// library query engine.
//
// This package turns a declarative libquery.Query into a single injection-safe
// SQL statement (via goqu), executes it inside a request-scoped read-only
// transaction, and materializes the rows into the libquery entity shapes.
// Requested relations are eager loaded with one batched follow-up query per
// relation on the same transaction, so a fetch always runs a bounded, constant
// number of queries no matter how many rows it returns.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Derived per-book aggregates (readers_avg_rating, average_borrowed_time)
//     via independent grouped outer joins
//   - Configurable pagination bounds and dual logging/metrics hooks
//   - Transaction-safe operations with proper resource cleanup
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewQueryStoreFromPGXPool(db)
//
//	// With logging and a tighter page cap
//	store, _ := postgresengine.NewQueryStoreFromPGXPool(
//		db,
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMaxTake(100),
//	)
//
//	users, err := store.FetchUsers(ctx, query)
package postgresengine
