package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/tcgprice/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrMissingFile = errors.New("missing file")
	ErrNotImage    = errors.New("file must be an image")
	ErrTooLarge    = errors.New("file too large")
)

// Wrap annotates err with the handler operation.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind annotates err with the handler operation and an API error kind.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns an error of the given kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// classify maps a pipeline error onto a status code and error code.
// Recognition failures and unknown cards are the caller's problem; every
// other failure is ours.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrNotImage), errors.Is(err, ErrMissingFile), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, model.ErrUnrecognized):
		return http.StatusNotFound, "not_recognized"
	case errors.Is(err, model.ErrCardNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
