// Package chart draws the parameter trend chart that accompanies a report.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
)

// Title is the caption drawn above the chart.
const Title = "Trends of Key Parameters Over Time"

// Options controls the rendered image size in pixels.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns the size used by the service when unset.
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 600}
}

// seriesColors is indexed in the same order as seriesOrder.
var (
	seriesOrder  = []domain.Parameter{domain.ParamPH, domain.ParamCOD, domain.ParamSS, domain.ParamZn}
	seriesColors = []drawing.Color{
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("ff7f0e"),
		drawing.ColorFromHex("2ca02c"),
		drawing.ColorFromHex("d62728"),
	}
)

// RenderTrend plots every parameter of ds against its date and returns a PNG.
// Points are plotted in date order; ds itself is left untouched.
func RenderTrend(ds domain.Dataset, opts Options) ([]byte, error) {
	if len(ds) == 0 {
		return nil, errors.New("render trend chart: dataset is empty")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	points := sortedByDate(ds)
	dates := make([]time.Time, len(points))
	for i, rec := range points {
		dates[i] = rec.Date
	}

	series := make([]gochart.Series, 0, len(seriesOrder))
	for i, p := range seriesOrder {
		values := make([]float64, len(points))
		for j, rec := range points {
			values[j] = rec.Value(p)
		}
		series = append(series, gochart.TimeSeries{
			Name:    p.Label(),
			XValues: dates,
			YValues: values,
			Style: gochart.Style{
				StrokeColor: seriesColors[i],
				StrokeWidth: 2,
				DotColor:    seriesColors[i],
				DotWidth:    3,
			},
		})
	}

	graph := gochart.Chart{
		Title:  Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    60,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: drawing.ColorWhite,
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
			Range:          dateRange(dates),
		},
		YAxis: gochart.YAxis{
			Name:  "Value",
			Range: valueRange(points),
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(gochart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func sortedByDate(ds domain.Dataset) domain.Dataset {
	out := make(domain.Dataset, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// dateRange pads a single-day span by a day on each side; go-chart refuses
// to draw a zero-width axis.
func dateRange(dates []time.Time) gochart.Range {
	first, last := dates[0], dates[len(dates)-1]
	if !first.Equal(last) {
		return nil
	}
	return &gochart.ContinuousRange{
		Min: gochart.TimeToFloat64(first.AddDate(0, 0, -1)),
		Max: gochart.TimeToFloat64(last.AddDate(0, 0, 1)),
	}
}

// valueRange pads a flat series for the same reason as dateRange.
func valueRange(points domain.Dataset) gochart.Range {
	lo, hi := points[0].PH, points[0].PH
	for _, rec := range points {
		for _, p := range seriesOrder {
			v := rec.Value(p)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if lo != hi {
		return nil
	}
	return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}
