// Package persistence stores driver runtime state as JSON files.
//
// The daemon persists the last asserted brightness level so it can be
// re-asserted after a restart on systems whose firmware forgets the
// level. The store is a small versioned JSON file; loading a missing
// file yields empty state rather than an error.
package persistence
