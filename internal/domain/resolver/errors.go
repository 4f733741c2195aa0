package resolver

import "errors"

// ErrNoCatalog is reported when the resolver was built without a catalog.
var ErrNoCatalog = errors.New("no catalog configured")
