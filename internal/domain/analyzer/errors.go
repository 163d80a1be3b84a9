package analyzer

import "errors"

// ErrUnavailable indicates the analysis endpoint was unreachable or answered
// with a non-success status. No retry happens; the caller resubmits.
var ErrUnavailable = errors.New("analyzer unavailable")

// ErrMalformedResponse indicates the endpoint answered but the body does not
// conform to the result-record schema.
var ErrMalformedResponse = errors.New("malformed analyzer response")
