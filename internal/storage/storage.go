// Package storage provides small persistent key/value backends for client-side state.
//
// A Storage plays the part of browser local storage: values survive process restarts
// on the same machine (file, redis) but are not shared across machines unless the
// backend is. Get reports absence rather than failing, so callers can treat a missing
// or unreadable value as "nothing stored".
package storage

import "errors"

// ErrUnavailable is returned by writes against a backend with no persistent storage
var ErrUnavailable = errors.New("storage: no persistent storage available")

// Storage is a string key/value store
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Nop is the storage of a context without persistence. Reads report absence and
// writes are dropped.
type Nop struct{}

func (Nop) Get(string) (string, bool) { return "", false }

func (Nop) Set(string, string) error { return nil }

func (Nop) Remove(string) error { return nil }

var _ Storage = Nop{}
