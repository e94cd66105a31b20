// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in internal/store, together with the embedded schema
// migrations they rely on.
//
// Stores accept a store.DBTX so they work with either a *sql.DB or a
// *sql.Tx. Identifiers and timestamps are assigned by the database and
// written back into the entity on insert.
package postgres
