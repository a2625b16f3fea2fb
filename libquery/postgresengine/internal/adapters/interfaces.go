package adapters

import "context"

// DBAdapter is the session provider the query store depends on: it hands out
// one read-only transaction handle per request.
type DBAdapter interface {
	BeginReadTx(ctx context.Context) (DBTx, error)
}

// DBTx is a request-scoped transactional handle. Every query of one fetch
// runs on the same handle; it must be committed or rolled back on every exit
// path so no connection leaks.
type DBTx interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
