package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/okian/devbracket/internal/domain/model"
)

// TimeLayout is the createdAt layout used by Write.
const TimeLayout = "2006-01-02 15:04:05"

const sheetName = "Sheet1"

// Write encodes observations as a table in the given format, with the
// header returned by Columns. Absent values are written as empty cells.
func Write(w io.Writer, format Format, obs []model.Observation) error {
	switch format {
	case CSV:
		return writeCSV(w, obs)
	case XLSX:
		return writeXLSX(w, obs)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func record(o model.Observation) []string {
	return []string{
		o.UserID,
		o.Exercise,
		o.Dominance,
		o.TS.Format(TimeLayout),
		cell(o.Power),
		cell(o.Acceleration),
		o.Sex,
		o.Sport,
		o.Position,
		cell(o.Weight),
		cell(o.Height),
	}
}

func cell(v model.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeCSV(w io.Writer, obs []model.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}
	for _, o := range obs {
		if err := cw.Write(record(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, obs []model.Observation) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := make([]interface{}, 0, len(Columns()))
	for _, c := range Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, o := range obs {
		row := []interface{}{
			o.UserID,
			o.Exercise,
			o.Dominance,
			o.TS.Format(TimeLayout),
			number(o.Power),
			number(o.Acceleration),
			o.Sex,
			o.Sport,
			o.Position,
			number(o.Weight),
			number(o.Height),
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, addr, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// number keeps measured values numeric in the sheet; absent is an empty cell.
func number(v model.Value) interface{} {
	if f, ok := v.Get(); ok {
		return f
	}
	return ""
}
