package live

import "errors"

var (
	// ErrTransport reports a failure to reach the quote service.
	ErrTransport = errors.New("quote service unreachable")
	// ErrStatus reports a non-2xx answer.
	ErrStatus = errors.New("quote service returned an error status")
	// ErrDecode reports a body that is not a JSON quote array.
	ErrDecode = errors.New("quote service returned an invalid body")
)
