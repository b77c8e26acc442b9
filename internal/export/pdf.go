// Package export writes the downloadable compliance document.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	gofpdf "github.com/go-pdf/fpdf"
)

// DefaultFileName is the suggested name for the downloaded document.
const DefaultFileName = "IETS_report.pdf"

const (
	chartImageName = "trend-chart"
	bodyLineHeight = 5.5
	fontFamily     = "Helvetica"
)

// Options controls document metadata.
type Options struct {
	Title      string
	ChartTitle string
	CreatedAt  time.Time
}

// RenderPDF lays out the Markdown report text on A4 pages and, when chartPNG
// is non-empty, appends the trend chart on its own page.
//
// Only the Markdown the report formatter emits is interpreted: "### "
// headings and "**bold**" spans. Everything else is written verbatim.
func RenderPDF(text string, chartPNG []byte, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("discharge-compliance-service", true)
	pdf.SetCatalogSort(true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
		pdf.SetModificationDate(opts.CreatedAt)
	}
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	for _, line := range strings.Split(text, "\n") {
		writeLine(pdf, tr, line)
	}

	if len(chartPNG) > 0 {
		addChartPage(pdf, tr, opts.ChartTitle, chartPNG)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLine(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		pdf.Ln(2.5)
	case strings.HasPrefix(trimmed, "### "):
		pdf.Ln(2)
		pdf.SetFont(fontFamily, "B", 12)
		pdf.SetTextColor(30, 41, 59)
		pdf.MultiCell(0, 7, tr(strings.TrimPrefix(trimmed, "### ")), "", "L", false)
		pdf.Ln(1)
	default:
		pdf.SetTextColor(40, 40, 40)
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent > 0 {
			pdf.SetX(pdf.GetX() + float64(indent)*2)
		}
		writeSpans(pdf, tr, strings.TrimLeft(line, " "))
		pdf.Ln(bodyLineHeight)
	}
}

// writeSpans writes a line whose "**" markers toggle bold.
func writeSpans(pdf *gofpdf.Fpdf, tr func(string) string, line string) {
	for i, span := range strings.Split(line, "**") {
		if span == "" {
			continue
		}
		style := ""
		if i%2 == 1 {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, 10)
		pdf.Write(bodyLineHeight, tr(span))
	}
}

func addChartPage(pdf *gofpdf.Fpdf, tr func(string) string, title string, chartPNG []byte) {
	pdf.AddPage()
	if title != "" {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.SetTextColor(30, 41, 59)
		pdf.MultiCell(0, 7, tr(title), "", "L", false)
		pdf.Ln(3)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(chartImageName, opts, bytes.NewReader(chartPNG))
	if pdf.Err() {
		return
	}
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions(chartImageName, left, pdf.GetY(), pageW-left-right, 0, true, opts, 0, "")
}
