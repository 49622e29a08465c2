// Package storage provides the key-value stores that hold persisted slots.
//
// A Store maps string keys to string values and is read and written one
// key at a time. Every Set is a single synchronous write of the whole value,
// so a slot is never observed half written.
//
// # Backends
//
//   - "file": one JSON object file, e.g. {"tasks":"[\"Buy milk\"]"}.
//     Writes go to a temp file that is renamed over the original.
//   - "sqlite": a kv(key, value) table in a SQLite database
//     (modernc.org/sqlite, no cgo).
//   - "memory": process-local map, used by tests.
package storage
