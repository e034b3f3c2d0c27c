package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrDatasetTooLarge = errors.New("dataset exceeds upload limit")
	ErrEmptyUpload     = errors.New("empty upload")
)
