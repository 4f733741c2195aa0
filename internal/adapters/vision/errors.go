package vision

import (
	"errors"
	"fmt"
)

// ErrNotConfigured reports a client built without an API key.
var ErrNotConfigured = errors.New("vision: api key not configured")

// StatusError is a non-2xx answer from the completion endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("vision request: http %d: %s", e.StatusCode, e.Body)
}
