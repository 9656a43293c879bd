package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist. Callers
// use errors.Is to distinguish it from storage failures.
var ErrNotFound = errors.New("record not found")
