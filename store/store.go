// Package store provides implementations of the externally owned
// navigation index slot. Each cell is namespaced per document; the
// engine only reads and replaces whole values, so no merge logic
// exists here.
package store

import "errors"

var ErrClosed = errors.New("store is closed")
