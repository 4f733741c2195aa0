package model

import "errors"

// Sentinel kinds shared across layers. Adapters wrap them; the HTTP boundary
// maps them to status codes with errors.Is.
var (
	// ErrUnrecognized means the recognizer produced no usable identification.
	ErrUnrecognized = errors.New("card not recognized")
	// ErrCardNotFound means the catalog has no record for a requested id.
	ErrCardNotFound = errors.New("card not found")
)
