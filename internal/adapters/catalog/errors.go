package catalog

import (
	"errors"
	"fmt"

	"github.com/okian/tcgprice/internal/domain/model"
)

var (
	// ErrNotFound reports an id the catalog does not know.
	ErrNotFound = fmt.Errorf("catalog: %w", model.ErrCardNotFound)
	// ErrTransport reports a failure to reach the catalog, including timeouts.
	ErrTransport = errors.New("catalog unreachable")
	// ErrStatus reports a non-2xx answer other than 404.
	ErrStatus = errors.New("catalog returned an error status")
	// ErrDecode reports a body that could not be parsed.
	ErrDecode = errors.New("catalog returned an invalid body")
)

func classify(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "error"
	}
}
