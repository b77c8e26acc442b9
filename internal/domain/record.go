package domain

import "time"

// Parameter identifies a measured discharge parameter.
type Parameter string

const (
	ParamCOD Parameter = "COD"
	ParamSS  Parameter = "SS"
	ParamZn  Parameter = "Zn"
	ParamPH  Parameter = "pH"
)

// Parameters lists every parameter in violation-evaluation order.
var Parameters = []Parameter{ParamCOD, ParamSS, ParamZn, ParamPH}

// Label returns the final-discharge display label, e.g. "COD F/D".
func (p Parameter) Label() string {
	return string(p) + " F/D"
}

// Record is one logsheet row after field mapping.
type Record struct {
	Date time.Time `json:"date"`
	PH   float64   `json:"ph"`
	COD  float64   `json:"cod"`
	SS   float64   `json:"ss"`
	Zn   float64   `json:"zn"`
}

// Value returns the reading for p.
func (r Record) Value(p Parameter) float64 {
	switch p {
	case ParamCOD:
		return r.COD
	case ParamSS:
		return r.SS
	case ParamZn:
		return r.Zn
	case ParamPH:
		return r.PH
	default:
		return 0
	}
}

// Dataset is an ordered sequence of records in input row order.
type Dataset []Record

// Violation is a single parameter that breached its limit.
type Violation struct {
	Parameter Parameter `json:"parameter"`
	Value     float64   `json:"value"`
}

// NonComplianceEntry lists the violations recorded for one sampling date.
type NonComplianceEntry struct {
	Date       time.Time   `json:"date"`
	Violations []Violation `json:"violations"`
}

// Means holds the arithmetic mean of each parameter.
type Means struct {
	PH  float64 `json:"ph"`
	COD float64 `json:"cod"`
	SS  float64 `json:"ss"`
	Zn  float64 `json:"zn"`
}

// Value returns the mean for p.
func (m Means) Value(p Parameter) float64 {
	return Record{PH: m.PH, COD: m.COD, SS: m.SS, Zn: m.Zn}.Value(p)
}

// AnalysisResult is the outcome of a single compliance analysis.
type AnalysisResult struct {
	Start             time.Time            `json:"start"`
	End               time.Time            `json:"end"`
	Means             Means                `json:"means"`
	NonCompliance     []NonComplianceEntry `json:"non_compliance"`
	TotalRecords      int                  `json:"total_records"`
	PassingRecords    int                  `json:"passing_records"`
	PassingPercentage float64              `json:"passing_percentage"`
	FailingPercentage float64              `json:"failing_percentage"`
}

// Compliant reports whether every record met the discharge standard.
func (r AnalysisResult) Compliant() bool {
	return len(r.NonCompliance) == 0
}
