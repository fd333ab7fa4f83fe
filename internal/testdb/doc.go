//go:build integration

// Package testdb provides helpers for PostgreSQL integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT and isolate their
// changes with WithTx, which rolls the transaction back when the test
// function returns:
//
//	func TestTaskStore(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped unless TASKS_TEST_DATABASE_URL or DATABASE_URL is set.
// The files are only compiled with the integration build tag:
//
//	go test -tags=integration ./...
package testdb
