// Package kvcache provides the expiring key-value store that keeps fetched
// definition text (nickname scripts, schema documents) between runs.
//
// Three backends implement Store:
//
//   - MemoryStore: process memory, for tests and one-shot commands.
//   - SQLiteStore: a local database file; the default. Built on the pure Go
//     modernc.org/sqlite driver, or on github.com/mattn/go-sqlite3 with the
//     cgo_sqlite build tag.
//   - RedisStore: shared between processes; Redis handles expiry.
//
// All keys are namespaced by a configurable prefix.
package kvcache
