// Package storage defines the Storage interface: the contract any
// persistence backend must satisfy to hold record collections.
//
// A backend stores one opaque document per collection name. It knows
// nothing about entities, ids or validation; those live in the record
// store. Every Write replaces the whole document, so the last writer wins.
//
// Switching backends means implementing this interface and changing one
// line in main.go. Tests can pass an in-memory fake.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Read when no document has been written yet
// under the given name.
var ErrNotExist = errors.New("storage: document does not exist")

// Storage is the persistence contract.
type Storage interface {
	// Read returns the current document stored under name, or
	// ErrNotExist if none was ever written.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the document stored under name.
	Write(ctx context.Context, name string, doc []byte) error
}
