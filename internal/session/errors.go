package session

import "errors"

var (
	// ErrNotFound is returned when a session id is unknown to the store.
	ErrNotFound = errors.New("session not found")
	// ErrVersionConflict is returned when an Update loses an optimistic-locking race.
	ErrVersionConflict = errors.New("session version conflict")
	// ErrInvalidConfig is returned when a store is built with missing options.
	ErrInvalidConfig = errors.New("invalid store configuration")
)
