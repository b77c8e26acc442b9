package domain

import (
	"errors"
	"fmt"
)

// ErrDataFormat matches every DataFormatError via errors.Is.
var ErrDataFormat = errors.New("data format")

// DataFormatError reports a logsheet that cannot be analyzed.
// Row is the 1-based data row (header excluded); zero when the problem is not
// tied to a single row. ParseDataset counts rows as they appear in the file,
// blank rows included. Analyze counts by position in the Dataset, which only
// differs for datasets built in code. Column is empty when not tied to a column.
type DataFormatError struct {
	Row    int
	Column string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	msg := "data format: "
	if e.Row > 0 {
		msg += fmt.Sprintf("row %d ", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf("column %q", e.Column)
	}
	if e.Row > 0 || e.Column != "" {
		msg += ": "
	}
	msg += e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataFormat) true for any DataFormatError.
func (e *DataFormatError) Is(target error) bool {
	return target == ErrDataFormat
}

func errEmptyDataset() error {
	return &DataFormatError{Reason: "dataset has no records"}
}

func errMissingColumn(name string) error {
	return &DataFormatError{Column: name, Reason: "required column is missing"}
}

func errBadValue(row int, column, reason string, err error) error {
	return &DataFormatError{Row: row, Column: column, Reason: reason, Err: err}
}
