package db

import "errors"

// ErrMissing is returned when a requested record does not exist.
var ErrMissing = errors.New("missing record")
