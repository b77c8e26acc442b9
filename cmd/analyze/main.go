// Command analyze runs a compliance analysis on a logsheet CSV and writes the
// report, trend chart, and PDF document to a directory.
//
// Usage:
//
//	go run ./cmd/analyze -in data/mock/logsheet.csv -out ./report -logsheet LS-2024-01
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	kafkaadapter "github.com/couchcryptid/discharge-compliance-service/internal/adapter/kafka"
	"github.com/couchcryptid/discharge-compliance-service/internal/chart"
	"github.com/couchcryptid/discharge-compliance-service/internal/config"
	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
	"github.com/couchcryptid/discharge-compliance-service/internal/export"
	"github.com/couchcryptid/discharge-compliance-service/internal/observability"
	"github.com/couchcryptid/discharge-compliance-service/internal/pipeline"
	"github.com/couchcryptid/discharge-compliance-service/internal/report"
)

const (
	reportFile = "report.md"
	chartFile  = "trend.png"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, domain.ErrDataFormat) {
			fmt.Fprintf(os.Stderr, "%v\nPlease re-upload a corrected file.\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run() error {
	in := flag.String("in", "", "path to the logsheet CSV (Date, pH, COD, SS, Zn)")
	out := flag.String("out", ".", "directory to write report.md, trend.png and "+export.DefaultFileName)
	logsheet := flag.String("logsheet", "", "logsheet reference number printed in the report")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return errors.New("missing required flag: -in")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	var publisher pipeline.ResultPublisher
	if cfg.KafkaEnabled {
		kafkaPub := kafkaadapter.NewPublisher(cfg, logger)
		defer kafkaPub.Close()
		publisher = kafkaPub
	}

	svc := pipeline.New(publisher, logger, observability.NewMetrics(), pipeline.Options{
		Chart:     chart.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		CacheSize: 1,
	})

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := svc.Run(context.Background(), f, *logsheet)
	if err != nil {
		return err
	}

	if err := writeArtefacts(*out, result); err != nil {
		return err
	}

	fmt.Println(report.SummaryTable(result.Result))
	fmt.Printf("analysis %s written to %s\n", result.ID, *out)
	return nil
}

func writeArtefacts(dir string, out *pipeline.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{reportFile, []byte(out.Report)},
		{chartFile, out.ChartPNG},
		{export.DefaultFileName, out.PDF},
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file.name), file.data, 0o644); err != nil { //nolint:gosec // report artefacts are not secret
			return fmt.Errorf("write %s: %w", file.name, err)
		}
	}
	return nil
}
