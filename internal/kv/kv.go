// Package kv defines the flat string-key storage port the vault persists
// through, together with its local and redis-backed implementations.
//
// The vault assumes a single active writer; none of the implementations
// provide transactions across keys.
package kv

import "errors"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the injected storage abstraction. All vault collections live
// under plain string keys holding UTF-8 encoded structured text.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
