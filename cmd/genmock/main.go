// Command genmock writes a synthetic wastewater logsheet CSV for demos and
// test fixtures. Most days sit comfortably inside the discharge standard; a
// configurable share breach one or more limits. The generated file is run
// back through the domain package so the printed stats match what the
// analyzer will report.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/logsheet.csv -days 30 -seed 1 -fail-rate 0.2
package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the logsheet CSV")
	days := flag.Int("days", 30, "number of daily records")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	failRate := flag.Float64("fail-rate", 0.2, "share of days that breach at least one limit (0-1)")
	start := flag.String("start", "2024-01-01", "first sample date (YYYY-MM-DD)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return errors.New("missing required flag: -out")
	}
	if *days < 1 {
		return errors.New("-days must be at least 1")
	}
	if *failRate < 0 || *failRate > 1 {
		return errors.New("-fail-rate must be between 0 and 1")
	}
	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	var buf bytes.Buffer
	rng := rand.New(rand.NewPCG(*seed, *seed)) //nolint:gosec // synthetic fixtures, not security sensitive
	if err := generate(&buf, startDate, *days, *failRate, rng); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o600); err != nil {
		return err
	}
	log.Printf("wrote logsheet: %s", *out)

	ds, err := domain.ParseDataset(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("generated file does not parse: %w", err)
	}
	res, err := domain.Analyze(ds)
	if err != nil {
		return err
	}
	log.Printf("records: %d  non-compliant days: %d  passing: %.2f%%",
		res.TotalRecords, len(res.NonCompliance), res.PassingPercentage)
	return nil
}

// generate writes days rows starting at start. Each row breaches the
// standard with probability failRate.
func generate(w io.Writer, start time.Time, days int, failRate float64, rng *rand.Rand) error {
	cw := csv.NewWriter(w)
	header := []string{domain.ColumnDate, domain.ColumnPH, domain.ColumnCOD, domain.ColumnSS, domain.ColumnZn}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range days {
		rec := compliantRecord(start.AddDate(0, 0, i), rng)
		if rng.Float64() < failRate {
			breach(&rec, rng)
		}
		row := []string{
			rec.Date.Format("2006-01-02"),
			formatReading(rec.PH),
			formatReading(rec.COD),
			formatReading(rec.SS),
			formatReading(rec.Zn),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func compliantRecord(date time.Time, rng *rand.Rand) domain.Record {
	return domain.Record{
		Date: date,
		PH:   between(rng, 6.5, 8.5),
		COD:  between(rng, 20, domain.CODLimit*0.9),
		SS:   between(rng, 10, domain.SSLimit*0.9),
		Zn:   between(rng, 0.05, domain.ZnLimit*0.9),
	}
}

// breach pushes one randomly chosen parameter outside the standard.
func breach(rec *domain.Record, rng *rand.Rand) {
	switch domain.Parameters[rng.IntN(len(domain.Parameters))] {
	case domain.ParamCOD:
		rec.COD = between(rng, domain.CODLimit*1.1, domain.CODLimit*2)
	case domain.ParamSS:
		rec.SS = between(rng, domain.SSLimit*1.1, domain.SSLimit*2)
	case domain.ParamZn:
		rec.Zn = between(rng, domain.ZnLimit*1.1, domain.ZnLimit*3)
	case domain.ParamPH:
		if rng.IntN(2) == 0 {
			rec.PH = between(rng, 3, domain.PHMin-0.3)
		} else {
			rec.PH = between(rng, domain.PHMax+0.3, 12)
		}
	}
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
