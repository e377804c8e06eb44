package storage

import "errors"

// ErrNotFound is returned when the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// ErrConflict is returned when a conditional write fails because the item is not in the expected state,
// e.g. it already exists or its completion state changed underneath the caller.
var ErrConflict = errors.New("conditional check failed")

// ErrConcurrentUpdate is returned when a balance could not be updated after exhausting optimistic-lock retries.
var ErrConcurrentUpdate = errors.New("balance was modified concurrently")

// ErrAlreadyClaimed is returned when a scheduled pass has already been claimed for the requested period.
var ErrAlreadyClaimed = errors.New("scheduled pass already claimed for this period")
