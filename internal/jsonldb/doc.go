// Package jsonldb provides JSONL-backed tables with in-memory caching.
//
// Each [Table] persists one row type to a single .jsonl file: rows are
// loaded once at startup, kept in memory behind a RWMutex, and written
// back on mutation (append for inserts, whole-file rewrite otherwise).
// Rows are identified by a [ksid.ID] primary key.
//
// Secondary lookups go through [UniqueIndex] and [Index], which are kept
// synchronized with table mutations via [TableObserver].
package jsonldb
