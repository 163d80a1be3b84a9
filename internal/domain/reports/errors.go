package reports

import "errors"

// ErrNotFound indicates no share record exists for the given token.
var ErrNotFound = errors.New("report not found")
