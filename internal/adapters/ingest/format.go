package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a supported table encoding.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat parses a format name such as "csv" or ".XLSX".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromFilename infers the format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Column names of the input table. Matching is case-insensitive.
const (
	ColUser         = "user name"
	ColExercise     = "exercise name"
	ColDominance    = "dominance"
	ColCreatedAt    = "exercise createdAt"
	ColPower        = "power - high"
	ColAcceleration = "acceleration - high"
	ColSex          = "sex"
	ColSport        = "sport"
	ColPosition     = "position"
	ColWeight       = "weight"
	ColHeight       = "height"
)

// RequiredColumns must be present in the header row.
func RequiredColumns() []string {
	return []string{ColUser, ColExercise, ColDominance, ColCreatedAt, ColPower, ColAcceleration, ColSex}
}

// Columns is the full header written by Write.
func Columns() []string {
	return append(RequiredColumns(), ColSport, ColPosition, ColWeight, ColHeight)
}
