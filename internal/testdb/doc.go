//go:build integration

// Package testdb provides database helpers for integration tests.
//
// Start returns a migrated PostgreSQL connection: either the database named
// by FISZKI_TEST_DB_URL, or a disposable container started with
// testcontainers. WithTx runs a test body inside a transaction that is
// always rolled back, so tests sharing a database do not see each other's
// rows and can run in parallel.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Start(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresGenerationStore(tx, logger)
//	        // ...
//	    })
//	}
package testdb
