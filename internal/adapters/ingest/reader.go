// Package ingest reads observation tables from CSV and XLSX files. It is the
// only place raw cells are validated: a dataset with malformed cells is
// rejected as a whole, with every row error reported.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/okian/devbracket/internal/domain/model"
	"github.com/okian/devbracket/pkg/logger"
)

const defaultMaxRowErrors = 50

// timeLayouts are tried in order for the createdAt column.
var timeLayouts = []string{ //nolint:gochecknoglobals // fixed parse table
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01-02-06 15:04",
	"01-02-06",
}

// Reader parses observation tables.
type Reader struct {
	logger       logger.Logger
	maxRowErrors int
	location     *time.Location
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		logger:       logger.Nop(),
		maxRowErrors: defaultMaxRowErrors,
		location:     time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile reads a table from path, inferring the format from its extension.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.Observation, error) {
	format, err := FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return r.Read(ctx, f, format)
}

// Read reads a table in the given format.
func (r *Reader) Read(ctx context.Context, src io.Reader, format Format) ([]model.Observation, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case CSV:
		rows, err = readCSV(src)
	case XLSX:
		rows, err = readXLSX(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return r.parse(ctx, rows)
}

func readCSV(src io.Reader) ([][]string, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDataset
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

type columns map[string]int

func (c columns) get(row []string, name string) string {
	i, ok := c[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (r *Reader) parse(ctx context.Context, rows [][]string) ([]model.Observation, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	cols := make(columns, len(rows[0]))
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		out    = make([]model.Observation, 0, len(rows)-1)
		errs   error
		nerrs  int
		capped bool
	)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}
		o, err := r.parseRow(cols, row)
		if err != nil {
			nerrs++
			if nerrs > r.maxRowErrors {
				capped = true
				break
			}
			// Line numbers are 1-based and count the header.
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", i+2, err))
			continue
		}
		out = append(out, o)
	}
	if errs != nil {
		if capped {
			errs = multierr.Append(errs, fmt.Errorf("%w: stopped after %d errors", ErrInvalidRow, r.maxRowErrors))
		}
		r.logger.Warn(ctx, "dataset rejected", logger.Int("row_errors", len(multierr.Errors(errs))))
		return nil, errs
	}
	if len(out) == 0 {
		return nil, ErrEmptyDataset
	}
	r.logger.Debug(ctx, "dataset parsed", logger.Int("rows", len(out)))
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (r *Reader) parseRow(cols columns, row []string) (model.Observation, error) {
	o := model.Observation{
		UserID:    cols.get(row, ColUser),
		Exercise:  cols.get(row, ColExercise),
		Dominance: cols.get(row, ColDominance),
		Sex:       cols.get(row, ColSex),
		Sport:     cols.get(row, ColSport),
		Position:  cols.get(row, ColPosition),
	}
	var err error
	if o.UserID == "" {
		err = multierr.Append(err, fmt.Errorf("%w: empty %q", ErrInvalidRow, ColUser))
	}
	if o.Exercise == "" {
		err = multierr.Append(err, fmt.Errorf("%w: empty %q", ErrInvalidRow, ColExercise))
	}
	ts, tsErr := r.parseTime(cols.get(row, ColCreatedAt))
	err = multierr.Append(err, tsErr)
	o.TS = ts

	for _, f := range []struct {
		col string
		dst *model.Value
	}{
		{ColPower, &o.Power},
		{ColAcceleration, &o.Acceleration},
		{ColWeight, &o.Weight},
		{ColHeight, &o.Height},
	} {
		v, vErr := parseValue(f.col, cols.get(row, f.col))
		err = multierr.Append(err, vErr)
		*f.dst = v
	}
	return o, err
}

func (r *Reader) parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty %q", ErrInvalidRow, ColCreatedAt)
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, r.location); err == nil {
			return t, nil
		}
	}
	// Spreadsheet serial date, as stored by XLSX date cells.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), r.location), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a timestamp", ErrInvalidRow, s)
}

func parseValue(col, s string) (model.Value, error) {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return model.Absent(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return model.Absent(), fmt.Errorf("%w: %q is not numeric in %q: %w", ErrInvalidRow, s, col, err)
	}
	return model.Some(f), nil
}
