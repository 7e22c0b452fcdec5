// Package history persists reconciliation runs in a SQLite database.
//
// Each run stores its inputs, the matching parameters, the per-origin
// summary, and every mapping so `subrecon history show` can replay what a run
// decided without the source files. The schema is versioned; a database
// written by an incompatible version is rejected with ErrSchemaMismatch.
package history
