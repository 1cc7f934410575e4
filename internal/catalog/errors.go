package catalog

import "errors"

var (
	// ErrValidation is returned for a missing or malformed show id.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when the detail page answers non-2xx.
	ErrNotFound = errors.New("anime not found")

	// ErrUpstream wraps transport failures against the anime site.
	ErrUpstream = errors.New("upstream error")
)
