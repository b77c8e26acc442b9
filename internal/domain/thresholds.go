package domain

// Discharge standard limits.
const (
	CODLimit = 100.0
	SSLimit  = 100.0
	ZnLimit  = 1.0
	PHMin    = 5.5
	PHMax    = 9.0
)

// ThresholdSet holds the discharge limits for one reporting period.
type ThresholdSet struct {
	CODMax float64
	SSMax  float64
	ZnMax  float64
	PHMin  float64
	PHMax  float64
}

// DischargeStandard returns the fixed limits applied by Analyze.
func DischargeStandard() ThresholdSet {
	return ThresholdSet{
		CODMax: CODLimit,
		SSMax:  SSLimit,
		ZnMax:  ZnLimit,
		PHMin:  PHMin,
		PHMax:  PHMax,
	}
}

// Violations evaluates r against t in COD, SS, Zn, pH order.
// Upper limits fail strictly above the limit; the pH band is closed.
func (t ThresholdSet) Violations(r Record) []Violation {
	var out []Violation
	if r.COD > t.CODMax {
		out = append(out, Violation{Parameter: ParamCOD, Value: r.COD})
	}
	if r.SS > t.SSMax {
		out = append(out, Violation{Parameter: ParamSS, Value: r.SS})
	}
	if r.Zn > t.ZnMax {
		out = append(out, Violation{Parameter: ParamZn, Value: r.Zn})
	}
	if r.PH < t.PHMin || r.PH > t.PHMax {
		out = append(out, Violation{Parameter: ParamPH, Value: r.PH})
	}
	return out
}
