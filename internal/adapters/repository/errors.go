package repository

import "errors"

// Sentinel kinds for report store errors.
var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidRecord = errors.New("invalid report record")
)
