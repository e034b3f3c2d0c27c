package bracket

import "errors"

// Sentinel errors for bracket parsing and scheme construction.
var (
	ErrUnknownBracket = errors.New("unknown bracket")
	ErrInvalidScheme  = errors.New("invalid bracket scheme")
)
