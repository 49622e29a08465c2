// Package todo holds the task list model and its persisted form.
//
// A task list is stored under one key of a key-value store as a compact
// JSON array of strings:
//
//	["Buy milk","Walk dog"]
//
// # Validation
//
// Decoded slots are checked against an embedded JSON Schema
// (draft 2020-12):
//
//	{"type": "array", "items": {"type": "string"}}
//
// Anything else (an object, a number, an array holding non-strings, bytes
// that are not JSON at all) is rejected with a ValidationError carrying
// the offending path, e.g. "[2]".
//
// # Identity
//
// A task has no identity beyond its text. Removing a task removes the first
// entry with exactly the same text, so with duplicate entries the one
// removed is the earliest, not necessarily the one a user pointed at.
package todo
