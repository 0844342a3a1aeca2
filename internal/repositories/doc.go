// Package repositories implements the data access layer over every table of the media store.
//
// A single [Store] serves all tables: each operation takes a [models.Table] descriptor and a [Filter].
// Column names are checked against the descriptor before any SQL is built, so identifiers never come from request input.
//
// Key operations:
//   - [Store.Select] : rows matching a filter, an empty slice when nothing matches
//   - [Store.Insert] : one row, stamped with DateCreated/DateUpdated, returning the new Id
//   - [Store.Update] : changes applied to every matching row, returning rows affected
//   - [Store.Delete] : matching rows removed, returning rows affected
//   - [Store.BulkInsert] : many rows in one transaction, used by seeding
//   - [Store.Tx] : runs a function against a Store bound to one transaction
//
// Driver failures are classified into [ErrConflict], [ErrForeignKey] and [ErrDatabase] for both SQLite and MySQL.
package repositories
