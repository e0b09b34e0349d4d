package storage

import "errors"

// ErrNotFound is returned by Retrieve when the named entry does not exist
var ErrNotFound = errors.New("storage: entry not found")

// Interface defines the contract for persisting the reply history blob
type Interface interface {
	Store(name string, data []byte) error
	Retrieve(name string) ([]byte, error)
}
