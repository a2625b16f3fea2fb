// Package adapters provides database abstractions for the postgres query
// engine, wrapping pgxpool.Pool, sql.DB and sqlx.DB behind a common
// transactional interface so the engine stays agnostic of the concrete
// driver in use.
package adapters
