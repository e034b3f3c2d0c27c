// Package repository defines the report store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/devbracket/internal/domain/cohort"
)

// Record is a stored cohort report.
type Record struct {
	ID        string
	Digest    string // hex SHA-256 of the uploaded dataset
	Name      string // original file name, if any
	CreatedAt time.Time
	Report    *cohort.Report
}

// Store provides read/write access to built reports.
type Store interface {
	// Put stores rec unless a report with the same digest exists, in which
	// case the existing record is returned and duplicate is true. The check
	// and the insert are atomic.
	Put(ctx context.Context, rec Record) (stored Record, duplicate bool, err error)

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Lookup returns the record built from the dataset digest, or ErrNotFound.
	Lookup(ctx context.Context, digest string) (Record, error)

	// List returns the stored records, newest first.
	List(ctx context.Context) []Record

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
