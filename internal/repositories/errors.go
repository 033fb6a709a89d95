package repositories

import "errors"

// ErrNotFound is returned by lookups when no row or document matches. Callers
// use errors.Is to tell "no data" apart from a failed store request.
var ErrNotFound = errors.New("record not found")
