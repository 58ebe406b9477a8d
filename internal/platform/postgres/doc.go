// Package postgres provides PostgreSQL implementations of the store
// interfaces using database/sql over the pgx stdlib driver. Each store
// accepts a store.DBTX so it can run against a connection pool or a
// transaction interchangeably.
package postgres
