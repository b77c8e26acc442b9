package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical logsheet column names.
const (
	ColumnDate = "Date"
	ColumnPH   = "pH"
	ColumnCOD  = "COD"
	ColumnSS   = "SS"
	ColumnZn   = "Zn"
)

var requiredColumns = []string{ColumnDate, ColumnPH, ColumnCOD, ColumnSS, ColumnZn}

// dateLayouts are tried in order; the first successful parse wins.
// Day-first numeric layouts are not accepted; they collide with
// month-first ones for days <= 12.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDataset reads a CSV logsheet and maps each row onto a Record.
// Any missing column, unparseable date or non-numeric reading fails the
// whole dataset with a DataFormatError.
func ParseDataset(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyDataset()
	}
	if err != nil {
		return nil, csvError(0, err)
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var ds Dataset
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(row, err)
		}
		if blankRow(fields) {
			continue
		}

		rec, err := parseRow(row, fields, index)
		if err != nil {
			return nil, err
		}
		ds = append(ds, rec)
	}

	if len(ds) == 0 {
		return nil, errEmptyDataset()
	}
	return ds, nil
}

// mapColumns resolves the position of every required column in header.
func mapColumns(header []string) (map[string]int, error) {
	byKey := make(map[string]int, len(header))
	for i, name := range header {
		key := columnKey(name)
		if _, dup := byKey[key]; !dup {
			byKey[key] = i
		}
	}

	index := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		i, ok := byKey[columnKey(col)]
		if !ok {
			return nil, errMissingColumn(col)
		}
		index[col] = i
	}
	return index, nil
}

// columnKey normalizes a header cell: strips a UTF-8 BOM, surrounding space,
// letter case and the " F/D" final-discharge suffix.
func columnKey(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "f/d")
	return strings.TrimSpace(name)
}

func parseRow(row int, fields []string, index map[string]int) (Record, error) {
	get := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	date, err := parseDate(get(ColumnDate))
	if err != nil {
		return Record{}, errBadValue(row, ColumnDate, "invalid date", err)
	}

	var rec Record
	rec.Date = date
	targets := []struct {
		col string
		dst *float64
	}{
		{ColumnPH, &rec.PH},
		{ColumnCOD, &rec.COD},
		{ColumnSS, &rec.SS},
		{ColumnZn, &rec.Zn},
	}
	for _, t := range targets {
		v, err := parseReading(get(t.col))
		if err != nil {
			return Record{}, errBadValue(row, t.col, "invalid reading", err)
		}
		*t.dst = v
	}
	return rec, nil
}

// acceptedDateLayouts is shown to users whose dates match none of dateLayouts.
const acceptedDateLayouts = "YYYY-MM-DD, YYYY/MM/DD, YYYY-MM-DD HH:MM[:SS], RFC 3339, DD-Mon-YYYY, D Mon YYYY or Mon D, YYYY"

// parseDate returns the calendar date written in s, in its own offset,
// as UTC midnight. "2024-01-02T23:30:00-05:00" yields 2024-01-02.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (accepted layouts: %s)", s, acceptedDateLayouts)
}

// parseReading parses a finite float. strconv accepts "NaN" and "Inf",
// which are rejected because they cannot be compared against a limit.
func parseReading(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number %q", s)
	}
	return v, nil
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// csvError classifies a csv.Reader failure: syntax problems are data-format
// errors, anything else came from the underlying reader.
func csvError(row int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return errBadValue(row, "", "malformed CSV", err)
	}
	return fmt.Errorf("read dataset: %w", err)
}
