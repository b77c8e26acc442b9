package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func compliantRecord(d int) Record {
	return Record{Date: day(d), PH: 7.0, COD: 50, SS: 40, Zn: 0.5}
}

func TestAnalyze_Example(t *testing.T) {
	ds := Dataset{
		{Date: day(1), PH: 7.0, COD: 50, SS: 40, Zn: 0.5},
		{Date: day(2), PH: 9.5, COD: 150, SS: 40, Zn: 0.5},
	}

	res, err := Analyze(ds)
	require.NoError(t, err)

	assert.Equal(t, day(1), res.Start)
	assert.Equal(t, day(2), res.End)
	assert.InDelta(t, 8.25, res.Means.PH, 1e-9)
	assert.InDelta(t, 100.0, res.Means.COD, 1e-9)
	assert.InDelta(t, 40.0, res.Means.SS, 1e-9)
	assert.InDelta(t, 0.5, res.Means.Zn, 1e-9)

	want := []NonComplianceEntry{{
		Date: day(2),
		Violations: []Violation{
			{Parameter: ParamCOD, Value: 150},
			{Parameter: ParamPH, Value: 9.5},
		},
	}}
	if diff := cmp.Diff(want, res.NonCompliance); diff != "" {
		t.Fatalf("non-compliance mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, res.TotalRecords)
	assert.Equal(t, 1, res.PassingRecords)
	assert.Equal(t, 50.0, res.PassingPercentage)
	assert.Equal(t, 50.0, res.FailingPercentage)
	assert.False(t, res.Compliant())
}

func TestAnalyze_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want []Violation
	}{
		{"pH at lower bound", Record{PH: 5.5, COD: 10, SS: 10, Zn: 0.1}, nil},
		{"pH at upper bound", Record{PH: 9.0, COD: 10, SS: 10, Zn: 0.1}, nil},
		{"COD at limit", Record{PH: 7, COD: 100, SS: 10, Zn: 0.1}, nil},
		{"SS at limit", Record{PH: 7, COD: 10, SS: 100, Zn: 0.1}, nil},
		{"Zn at limit", Record{PH: 7, COD: 10, SS: 10, Zn: 1.0}, nil},
		{"all at limits", Record{PH: 9.0, COD: 100, SS: 100, Zn: 1.0}, nil},
		{"COD just over", Record{PH: 7, COD: 100.01, SS: 10, Zn: 0.1}, []Violation{{ParamCOD, 100.01}}},
		{"SS just over", Record{PH: 7, COD: 10, SS: 100.5, Zn: 0.1}, []Violation{{ParamSS, 100.5}}},
		{"Zn just over", Record{PH: 7, COD: 10, SS: 10, Zn: 1.01}, []Violation{{ParamZn, 1.01}}},
		{"pH just under", Record{PH: 5.49, COD: 10, SS: 10, Zn: 0.1}, []Violation{{ParamPH, 5.49}}},
		{"pH just over", Record{PH: 9.01, COD: 10, SS: 10, Zn: 0.1}, []Violation{{ParamPH, 9.01}}},
		{
			"every parameter in fixed order",
			Record{PH: 3, COD: 200, SS: 300, Zn: 4},
			[]Violation{{ParamCOD, 200}, {ParamSS, 300}, {ParamZn, 4}, {ParamPH, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.Date = day(1)
			res, err := Analyze(Dataset{tt.rec})
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, res.NonCompliance)
				assert.Equal(t, 100.0, res.PassingPercentage)
				assert.Equal(t, 0.0, res.FailingPercentage)
				return
			}
			require.Len(t, res.NonCompliance, 1)
			assert.Equal(t, tt.want, res.NonCompliance[0].Violations)
			assert.Equal(t, 0.0, res.PassingPercentage)
			assert.Equal(t, 100.0, res.FailingPercentage)
		})
	}
}

func TestAnalyze_PreservesRowOrder(t *testing.T) {
	ds := Dataset{
		{Date: day(9), PH: 7, COD: 120, SS: 10, Zn: 0.1},
		compliantRecord(3),
		{Date: day(1), PH: 7, COD: 10, SS: 130, Zn: 0.1},
		{Date: day(5), PH: 10, COD: 10, SS: 10, Zn: 0.1},
	}

	res, err := Analyze(ds)
	require.NoError(t, err)

	require.Len(t, res.NonCompliance, 3)
	assert.Equal(t, day(9), res.NonCompliance[0].Date)
	assert.Equal(t, day(1), res.NonCompliance[1].Date)
	assert.Equal(t, day(5), res.NonCompliance[2].Date)
	assert.Equal(t, day(1), res.Start)
	assert.Equal(t, day(9), res.End)
}

func TestAnalyze_Percentages(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		failing int
	}{
		{"all compliant", 5, 0},
		{"all failing", 4, 4},
		{"one of three", 3, 1},
		{"two of seven", 7, 2},
		{"single record", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := make(Dataset, tt.total)
			for i := range ds {
				ds[i] = compliantRecord(i + 1)
				if i < tt.failing {
					ds[i].Zn = 2.5
				}
			}

			res, err := Analyze(ds)
			require.NoError(t, err)

			assert.InDelta(t, 100.0, res.PassingPercentage+res.FailingPercentage, 1e-9)
			assert.Len(t, res.NonCompliance, tt.failing)
			passing := int(math.Round(res.PassingPercentage / 100 * float64(tt.total)))
			assert.Equal(t, tt.total-passing, len(res.NonCompliance))
			assert.Equal(t, tt.total-tt.failing, res.PassingRecords)
		})
	}

	t.Run("uniform outcomes are exact", func(t *testing.T) {
		res, err := Analyze(Dataset{compliantRecord(1), compliantRecord(2), compliantRecord(3)})
		require.NoError(t, err)
		assert.Equal(t, 100.0, res.PassingPercentage)
		assert.Equal(t, 0.0, res.FailingPercentage)
		assert.True(t, res.Compliant())
	})
}

func TestAnalyze_Idempotent(t *testing.T) {
	ds := Dataset{
		{Date: day(2), PH: 5.2, COD: 101, SS: 99, Zn: 1.3},
		compliantRecord(1),
		{Date: day(3), PH: 6.1, COD: 88.8, SS: 140, Zn: 0.2},
	}
	snapshot := append(Dataset(nil), ds...)

	first, err := Analyze(ds)
	require.NoError(t, err)
	second, err := Analyze(ds)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated analysis differs (-first +second):\n%s", diff)
	}
	assert.Equal(t, snapshot, ds, "input dataset must not be modified")
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		ds     Dataset
		column string
	}{
		{"nil dataset", nil, ""},
		{"empty dataset", Dataset{}, ""},
		{"zero date", Dataset{{PH: 7, COD: 1, SS: 1, Zn: 0.1}}, ColumnDate},
		{"NaN COD", Dataset{{Date: day(1), PH: 7, COD: math.NaN(), SS: 1, Zn: 0.1}}, ColumnCOD},
		{"NaN pH", Dataset{{Date: day(1), PH: math.NaN(), COD: 1, SS: 1, Zn: 0.1}}, ColumnPH},
		{"infinite Zn", Dataset{{Date: day(1), PH: 7, COD: 1, SS: 1, Zn: math.Inf(1)}}, ColumnZn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataFormat))
			assert.Equal(t, AnalysisResult{}, res)

			var dfe *DataFormatError
			require.ErrorAs(t, err, &dfe)
			assert.Equal(t, tt.column, dfe.Column)
		})
	}
}

func TestDataFormatError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"dataset level", errEmptyDataset(), "data format: dataset has no records"},
		{"column level", errMissingColumn("Zn"), `data format: column "Zn": required column is missing`},
		{
			"cell level",
			errBadValue(3, "COD", "invalid reading", errors.New(`not a number "abc"`)),
			`data format: row 3 column "COD": invalid reading: not a number "abc"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParameterLabel(t *testing.T) {
	assert.Equal(t, "pH F/D", ParamPH.Label())
	assert.Equal(t, "Zn F/D", ParamZn.Label())
	assert.Equal(t, []Parameter{ParamCOD, ParamSS, ParamZn, ParamPH}, Parameters)
}
