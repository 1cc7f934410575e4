package episode

import "errors"

var (
	// ErrValidation is returned when the episode id is missing or malformed.
	ErrValidation = errors.New("invalid episode request")

	// ErrUpstream marks failures of the server directory stage. Any error
	// matching it aborts the whole resolution.
	ErrUpstream = errors.New("upstream error")
)

const (
	msgServersUnavailable = "Failed to fetch servers"
	msgInvalidResponse    = "Invalid response"
)

// UpstreamError is a fatal server directory failure. Message is safe to show
// to API callers.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUpstream) hold for every UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
