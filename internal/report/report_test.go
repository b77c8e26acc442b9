package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
)

const testReference = "5f0c7d7e-2b7f-4f57-9a3e-1c0d7a9b0c11"

var testGeneratedAt = time.Date(2024, time.February, 1, 9, 30, 15, 0, time.UTC)

func exampleResult(t *testing.T) domain.AnalysisResult {
	t.Helper()
	res, err := domain.Analyze(domain.Dataset{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PH: 7.0, COD: 50, SS: 40, Zn: 0.5},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), PH: 9.5, COD: 150, SS: 40, Zn: 0.5},
	})
	require.NoError(t, err)
	return res
}

func testMeta() Meta {
	return Meta{GeneratedAt: testGeneratedAt, Reference: testReference, Logsheet: "LS-2024-01"}
}

func TestFormat_Sections(t *testing.T) {
	text := Format(exampleResult(t), testMeta())

	expected := []string{
		"**" + Title + ":**\n\n",
		"**Report Date and Time:** 2024-02-01 09:30:15\n",
		"**Reference Number:** " + testReference + "\n",
		"**Logsheets Referral:** LS-2024-01\n\n",
		"- The data covers various dates from 2024-01-01 to 2024-01-02.\n",
		"- 2 daily records were collected",
		"- **Average pH F/D:** 8.25\n",
		"- **Average COD F/D:** 100.00\n",
		"- **Average SS F/D:** 40.00\n",
		"- **Average Zn F/D:** 0.50\n",
		"- **Date:** 2024-01-02\n  - **Parameter(s) Exceeded:** COD F/D: 150, pH F/D: 9.5\n\n",
		"- **Percentage of Passing Discharge Standards:** 50.00%\n",
		"- **Percentage of Failing Discharge Standards:** 50.00%\n",
		"Specific dates show significant deviations",
		"5. **Review and adjust operational procedures**",
	}
	for _, s := range expected {
		assert.Contains(t, text, s)
	}

	// Averages precede non-compliance, which precedes percentages.
	avg := strings.Index(text, "### Average Behavior:")
	nc := strings.Index(text, "### Non-Compliance Dates and Reasons:")
	pct := strings.Index(text, "### Percentage of Passing")
	assert.True(t, avg < nc && nc < pct, "sections out of order")
}

func TestFormat_Deterministic(t *testing.T) {
	res := exampleResult(t)
	assert.Equal(t, Format(res, testMeta()), Format(res, testMeta()))

	later := testMeta()
	later.GeneratedAt = testGeneratedAt.Add(3 * time.Hour)
	a, b := Format(res, testMeta()), Format(res, later)
	assert.NotEqual(t, a, b)
	assert.Equal(t, StripTimestamp(a), StripTimestamp(b))
	assert.NotContains(t, StripTimestamp(a), "Report Date and Time")
}

func TestFormat_CompliantDataset(t *testing.T) {
	res, err := domain.Analyze(domain.Dataset{
		{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), PH: 5.5, COD: 100, SS: 100, Zn: 1.0},
		{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), PH: 9.0, COD: 20, SS: 30, Zn: 0.2},
	})
	require.NoError(t, err)

	text := Format(res, Meta{GeneratedAt: testGeneratedAt})

	assert.Contains(t, text, "- None. Every record met the discharge standard.\n")
	assert.Contains(t, text, "**Reference Number:** Not provided\n")
	assert.Contains(t, text, "**Logsheets Referral:** Not provided\n")
	assert.Contains(t, text, "Passing Discharge Standards:** 100.00%")
	assert.Contains(t, text, "Failing Discharge Standards:** 0.00%")
	assert.Contains(t, text, "stayed within the discharge standard")
	assert.NotContains(t, text, "**Date:**")
}

func TestFormat_EntriesFollowResultOrder(t *testing.T) {
	res := domain.AnalysisResult{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		NonCompliance: []domain.NonComplianceEntry{
			{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Violations: []domain.Violation{{Parameter: domain.ParamSS, Value: 120.25}}},
			{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Violations: []domain.Violation{{Parameter: domain.ParamZn, Value: 1.2}}},
		},
	}

	text := Format(res, testMeta())
	first := strings.Index(text, "2024-03-09\n")
	second := strings.Index(text, "**Date:** 2024-03-01\n")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, text, "SS F/D: 120.25")
}

func TestFormatViolations(t *testing.T) {
	tests := []struct {
		name string
		in   []domain.Violation
		want string
	}{
		{"none", nil, ""},
		{"single", []domain.Violation{{Parameter: domain.ParamZn, Value: 1.5}}, "Zn F/D: 1.5"},
		{
			"several",
			[]domain.Violation{{Parameter: domain.ParamCOD, Value: 100.01}, {Parameter: domain.ParamPH, Value: 5.49}},
			"COD F/D: 100.01, pH F/D: 5.49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatViolations(tt.in))
		})
	}
}

func TestNewMeta(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(testGeneratedAt))
	t.Cleanup(func() { SetClock(nil) })

	meta := NewMeta("  LS-7  ")
	assert.Equal(t, testGeneratedAt, meta.GeneratedAt)
	assert.Equal(t, "LS-7", meta.Logsheet)
	_, err := uuid.Parse(meta.Reference)
	require.NoError(t, err)

	assert.NotEqual(t, meta.Reference, NewMeta("").Reference)
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(exampleResult(t))

	for _, s := range []string{"Parameter", "pH F/D", "8.25", "COD F/D", "100.00", "<= 100", "5.5 - 9", "pass 50.00%", "fail 50.00%"} {
		assert.Contains(t, out, s)
	}
}
