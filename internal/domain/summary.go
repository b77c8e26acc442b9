package domain

import "time"

// Summary is the event emitted downstream for each completed analysis.
type Summary struct {
	ID          string         `json:"id"`
	Logsheet    string         `json:"logsheet,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
	Result      AnalysisResult `json:"result"`
}

// Status returns "compliant" or "non_compliant".
func (s Summary) Status() string {
	if s.Result.Compliant() {
		return "compliant"
	}
	return "non_compliant"
}
