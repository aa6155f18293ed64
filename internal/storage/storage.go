// Package storage holds the data model shared between the MySQL layer, the
// services and the HTTP handlers.
package storage

import "errors"

// ErrNotFound is returned by storage lookups when the requested row does not
// exist. The MySQL layer maps sql.ErrNoRows to it so callers never depend on
// database/sql directly.
var ErrNotFound = errors.New("not found")
