// Package report renders an analysis result as a Markdown compliance report.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
)

const (
	// Title heads every report.
	Title = "IETS BIG Data Analysis Report USING A.I ANALYTICS"

	timestampPrefix = "**Report Date and Time:** "
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

// Meta carries the per-report values that are not derived from the analysis.
type Meta struct {
	GeneratedAt time.Time
	Reference   string
	Logsheet    string
}

// NewMeta stamps a report with the current time and a fresh reference number.
func NewMeta(logsheet string) Meta {
	return Meta{
		GeneratedAt: clock.Now(),
		Reference:   uuid.NewString(),
		Logsheet:    strings.TrimSpace(logsheet),
	}
}

// Format renders res as Markdown. The output depends only on res and meta;
// equal inputs produce byte-identical text.
func Format(res domain.AnalysisResult, meta Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s:**\n\n", Title)
	b.WriteString(timestampPrefix + meta.GeneratedAt.Format(timestampLayout) + "\n")
	fmt.Fprintf(&b, "**Reference Number:** %s\n", orPlaceholder(meta.Reference))
	fmt.Fprintf(&b, "**Logsheets Referral:** %s\n\n", orPlaceholder(meta.Logsheet))

	b.WriteString("### 1. TOWS Analysis:\n")
	b.WriteString("- **Threats:** Equipment malfunctions, sensor inaccuracies, high incoming flowrate, low chemicals in tank.\n")
	b.WriteString("- **Opportunities:** Implementing regular maintenance schedules, improving sensor calibration, optimizing chemical dosing.\n")
	b.WriteString("- **Weaknesses:** Fluctuations in key parameters, non-compliance with discharge standards on specific dates.\n")
	b.WriteString("- **Strengths:** Availability of detailed logsheets data, ability to analyze and identify patterns.\n\n")

	b.WriteString("### 2. Data Analytics:\n")
	fmt.Fprintf(&b, "- The data covers various dates from %s to %s.\n",
		res.Start.Format(dateLayout), res.End.Format(dateLayout))
	fmt.Fprintf(&b, "- %d daily records were collected from the monitoring systems of the facility.\n", res.TotalRecords)
	fmt.Fprintf(&b, "- The purpose of this report is to provide insights into the behavior of key parameters (%s), "+
		"identify dates of non-compliance with discharge standards, and offer recommendations for improvement.\n\n", labelList())

	b.WriteString("### Average Behavior:\n")
	for _, p := range meanOrder {
		fmt.Fprintf(&b, "- **Average %s:** %.2f\n", p.Label(), res.Means.Value(p))
	}
	b.WriteString("\n")

	b.WriteString("### Non-Compliance Dates and Reasons:\n")
	if len(res.NonCompliance) == 0 {
		b.WriteString("- None. Every record met the discharge standard.\n\n")
	}
	for _, entry := range res.NonCompliance {
		fmt.Fprintf(&b, "- **Date:** %s\n", entry.Date.Format(dateLayout))
		fmt.Fprintf(&b, "  - **Parameter(s) Exceeded:** %s\n\n", FormatViolations(entry.Violations))
	}

	b.WriteString("### Percentage of Passing and Failing Discharge Standards:\n")
	fmt.Fprintf(&b, "- **Percentage of Passing Discharge Standards:** %.2f%%\n", res.PassingPercentage)
	fmt.Fprintf(&b, "- **Percentage of Failing Discharge Standards:** %.2f%%\n\n", res.FailingPercentage)

	b.WriteString("### Overall Conclusion:\n")
	if res.Compliant() {
		b.WriteString("- All key parameters stayed within the discharge standard for the whole period. " +
			"Current operating practice should be maintained.\n\n")
	} else {
		b.WriteString("- The analysis indicates that there are fluctuations in the key parameters over time. " +
			"Specific dates show significant deviations which need to be addressed.\n\n")
	}

	b.WriteString("### Recommendations:\n")
	b.WriteString("1. **Regularly calibrate sensors** to ensure accurate readings.\n")
	b.WriteString("2. **Investigate and address the causes** of high COD and SS levels on specific dates.\n")
	b.WriteString("3. **Implement a maintenance schedule** to prevent equipment malfunctions.\n")
	b.WriteString("4. **Ensure proper chemical dosing** to maintain optimal pH levels.\n")
	b.WriteString("5. **Review and adjust operational procedures** to prevent future non-compliance.\n\n")

	return b.String()
}

// meanOrder is the presentation order of the averages section.
var meanOrder = []domain.Parameter{domain.ParamPH, domain.ParamCOD, domain.ParamSS, domain.ParamZn}

// FormatViolations renders violations as "COD F/D: 150, pH F/D: 9.5".
func FormatViolations(vs []domain.Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Parameter.Label() + ": " + strconv.FormatFloat(v.Value, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// StripTimestamp removes the generation timestamp line so two reports of
// the same analysis can be compared.
func StripTimestamp(text string) string {
	lines := strings.SplitAfter(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, timestampPrefix) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "")
}

func labelList() string {
	labels := make([]string, len(meanOrder))
	for i, p := range meanOrder {
		labels[i] = p.Label()
	}
	return strings.Join(labels, ", ")
}

func orPlaceholder(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
