package analyses

import "errors"

// ErrNotFound indicates no analysis record exists for the given id.
var ErrNotFound = errors.New("analysis not found")
