package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
)

// SummaryTable renders the averages and pass/fail split as a terminal table.
func SummaryTable(res domain.AnalysisResult) string {
	limits := domain.DischargeStandard()

	t := table.NewWriter()
	t.SetTitle("Discharge compliance %s to %s", res.Start.Format(dateLayout), res.End.Format(dateLayout))
	t.AppendHeader(table.Row{"Parameter", "Average", "Standard", "Breaches"})
	for _, p := range meanOrder {
		t.AppendRow(table.Row{
			p.Label(),
			fmt.Sprintf("%.2f", res.Means.Value(p)),
			limitText(limits, p),
			breachCount(res, p),
		})
	}
	t.AppendFooter(table.Row{
		"Records", res.TotalRecords,
		fmt.Sprintf("pass %.2f%%", res.PassingPercentage),
		fmt.Sprintf("fail %.2f%%", res.FailingPercentage),
	})
	t.SetStyle(table.StyleLight)
	// Keep "pH" and the F/D labels as written.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t.Render()
}

func limitText(t domain.ThresholdSet, p domain.Parameter) string {
	switch p {
	case domain.ParamCOD:
		return fmt.Sprintf("<= %g", t.CODMax)
	case domain.ParamSS:
		return fmt.Sprintf("<= %g", t.SSMax)
	case domain.ParamZn:
		return fmt.Sprintf("<= %g", t.ZnMax)
	case domain.ParamPH:
		return fmt.Sprintf("%g - %g", t.PHMin, t.PHMax)
	default:
		return ""
	}
}

func breachCount(res domain.AnalysisResult, p domain.Parameter) int {
	n := 0
	for _, entry := range res.NonCompliance {
		for _, v := range entry.Violations {
			if v.Parameter == p {
				n++
			}
		}
	}
	return n
}
