package ingest

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingColumns    = errors.New("missing required columns")
	ErrInvalidRow        = errors.New("invalid row")
	ErrEmptyDataset      = errors.New("empty dataset")
)
