// Package database persists scraped records.
//
// The default backend is RecordDB, a single SQLite file (via the CGO-free
// modernc.org/sqlite driver) holding the append-only scraped_data table.
// MongoStore keeps the same records in a MongoDB collection for deployments
// that already run one.
//
// Both backends implement Store. Records are never updated or deleted; ids
// are assigned on insert and strictly increase.
//
// Design decision: We use SQLite (via modernc.org/sqlite) as the default
// instead of other databases because:
// 1. No external service is needed; the database is a single file
// 2. The CGO-free driver keeps cross-compilation trivial
// 3. One append-only table of a few columns needs nothing more
//
// The file name and schema match databases written by earlier releases, so
// existing data is read without a migration step.
package database
