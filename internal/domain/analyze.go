package domain

import (
	"errors"
	"math"
	"time"
)

var (
	errZeroDate  = errors.New("missing value")
	errNonFinite = errors.New("not a finite number")
)

// Analyze computes compliance statistics for ds against the discharge
// standard. It is a pure function: the dataset is not modified and repeated
// calls on the same input return identical results.
//
// Non-compliance entries keep input row order. An empty dataset, a record
// without a date or a non-finite reading yields a DataFormatError.
func Analyze(ds Dataset) (AnalysisResult, error) {
	if len(ds) == 0 {
		return AnalysisResult{}, errEmptyDataset()
	}
	if err := validate(ds); err != nil {
		return AnalysisResult{}, err
	}

	limits := DischargeStandard()
	res := AnalysisResult{TotalRecords: len(ds)}
	res.Start, res.End = ds.DateRange()

	var sum Means
	for _, rec := range ds {
		sum.PH += rec.PH
		sum.COD += rec.COD
		sum.SS += rec.SS
		sum.Zn += rec.Zn

		if v := limits.Violations(rec); len(v) > 0 {
			res.NonCompliance = append(res.NonCompliance, NonComplianceEntry{Date: rec.Date, Violations: v})
			continue
		}
		res.PassingRecords++
	}

	n := float64(len(ds))
	res.Means = Means{
		PH:  sum.PH / n,
		COD: sum.COD / n,
		SS:  sum.SS / n,
		Zn:  sum.Zn / n,
	}
	res.PassingPercentage = 100 * float64(res.PassingRecords) / n
	res.FailingPercentage = 100 - res.PassingPercentage

	return res, nil
}

// validate rejects records that would make a threshold comparison
// meaningless. ParseDataset already enforces this; datasets built in code
// go through the same check.
func validate(ds Dataset) error {
	for i, rec := range ds {
		row := i + 1
		if rec.Date.IsZero() {
			return errBadValue(row, ColumnDate, "invalid date", errZeroDate)
		}
		for _, p := range Parameters {
			v := rec.Value(p)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errBadValue(row, string(p), "invalid reading", errNonFinite)
			}
		}
	}
	return nil
}

// DateRange returns the earliest and latest record dates.
func (ds Dataset) DateRange() (start, end time.Time) {
	for i, rec := range ds {
		if i == 0 || rec.Date.Before(start) {
			start = rec.Date
		}
		if i == 0 || rec.Date.After(end) {
			end = rec.Date
		}
	}
	return start, end
}
