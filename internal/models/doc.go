// Package models describes the media store schema and the request payloads accepted for it.
//
// The package contains two categories of types:
//
// 1. Table descriptors: static metadata for every table in the store
//   - [Table] : table name, descriptive [Column] list and name-lookup column
//   - [Row] : one table row keyed by column name, as read from or written to the database
//
// 2. Payloads: request bodies validated with struct tags before they reach the data layer
//   - [Album], [Artist], [Genre], [MediaType], [Playlist], [Track], [Customer], [Employee]
//   - [Invoice], [InvoiceItem], [PlaylistTrack] (seeding and export only)
//
// Every payload implements [Payload]; [Validate] reports tag failures as a [ValidationError].
// Descriptors are registered in dependency order and looked up with [Lookup].
package models
