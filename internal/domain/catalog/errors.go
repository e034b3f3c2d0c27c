package catalog

import "errors"

// ErrInvalidCatalog is returned by New for malformed region definitions.
var ErrInvalidCatalog = errors.New("invalid catalog")
