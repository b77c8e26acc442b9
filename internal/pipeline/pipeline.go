package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/discharge-compliance-service/internal/chart"
	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
	"github.com/couchcryptid/discharge-compliance-service/internal/export"
	"github.com/couchcryptid/discharge-compliance-service/internal/observability"
	"github.com/couchcryptid/discharge-compliance-service/internal/report"
)

// ResultPublisher announces a completed analysis to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, summary domain.Summary) error
}

// Pinger is implemented by publishers that can check their backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Output holds everything produced for one uploaded logsheet.
type Output struct {
	ID       string
	Meta     report.Meta
	Dataset  domain.Dataset
	Result   domain.AnalysisResult
	Report   string
	ChartPNG []byte
	PDF      []byte
}

// DefaultPublishTimeout bounds how long Run waits on the publisher.
const DefaultPublishTimeout = 5 * time.Second

// Options tunes the artefacts a Service renders.
type Options struct {
	Chart     chart.Options
	CacheSize int
	// PublishTimeout caps the publish step; zero means DefaultPublishTimeout.
	PublishTimeout time.Duration
}

// Service runs the parse, analyze, format, chart, export and publish stages
// for each upload and keeps recent outputs for later retrieval.
type Service struct {
	publisher      ResultPublisher
	publishTimeout time.Duration
	cache          *lruCache[*Output]
	chartOpts      chart.Options
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// New creates a Service. publisher may be nil when nothing downstream listens.
func New(publisher ResultPublisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Service {
	if opts.Chart.Width == 0 || opts.Chart.Height == 0 {
		opts.Chart = chart.DefaultOptions()
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	return &Service{
		publisher:      publisher,
		publishTimeout: opts.PublishTimeout,
		cache:          newLRUCache[*Output](opts.CacheSize),
		chartOpts:      opts.Chart,
		logger:         logger,
		metrics:        metrics,
	}
}

// Run analyzes the CSV read from src. A data format problem anywhere in the
// input aborts the run with no partial output.
func (s *Service) Run(ctx context.Context, src io.Reader, logsheet string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	out, err := s.analyze(src, logsheet)
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	entries := s.cache.put(out.ID, out)
	s.metrics.ResultCacheEntries.Set(float64(entries))

	s.publish(ctx, out)

	outcome := observability.OutcomeCompliant
	if !out.Result.Compliant() {
		outcome = observability.OutcomeNonCompliant
	}
	s.metrics.AnalysesTotal.WithLabelValues(outcome).Inc()
	s.metrics.RecordsAnalyzed.Add(float64(out.Result.TotalRecords))
	s.metrics.NonCompliantTotal.Add(float64(len(out.Result.NonCompliance)))
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	s.logger.Info("analysis complete",
		"analysis_id", out.ID,
		"records", out.Result.TotalRecords,
		"non_compliant", len(out.Result.NonCompliance),
		"passing_pct", out.Result.PassingPercentage,
	)
	return out, nil
}

func (s *Service) analyze(src io.Reader, logsheet string) (*Output, error) {
	ds, err := domain.ParseDataset(src)
	if err != nil {
		return nil, err
	}
	res, err := domain.Analyze(ds)
	if err != nil {
		return nil, err
	}

	meta := report.NewMeta(logsheet)
	text := report.Format(res, meta)

	png, err := chart.RenderTrend(ds, s.chartOpts)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}

	doc, err := export.RenderPDF(text, png, export.Options{
		Title:      report.Title,
		ChartTitle: chart.Title,
		CreatedAt:  meta.GeneratedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	return &Output{
		ID:       meta.Reference,
		Meta:     meta,
		Dataset:  ds,
		Result:   res,
		Report:   text,
		ChartPNG: png,
		PDF:      doc,
	}, nil
}

// publish hands the summary to the publisher within publishTimeout. Failures
// are logged and counted; the caller still receives its report.
func (s *Service) publish(ctx context.Context, out *Output) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	summary := domain.Summary{
		ID:          out.ID,
		Logsheet:    out.Meta.Logsheet,
		GeneratedAt: out.Meta.GeneratedAt,
		Result:      out.Result,
	}
	if err := s.publisher.Publish(ctx, summary); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish summary failed", "analysis_id", out.ID, "error", err)
	}
}

func (s *Service) recordFailure(err error) {
	if errors.Is(err, domain.ErrDataFormat) {
		s.metrics.AnalysesTotal.WithLabelValues(observability.OutcomeInvalidData).Inc()
		s.logger.Info("rejected dataset", "error", err)
		return
	}
	s.metrics.AnalysesTotal.WithLabelValues(observability.OutcomeError).Inc()
	s.logger.Error("analysis failed", "error", err)
}

// Lookup returns a recent output by ID.
func (s *Service) Lookup(id string) (*Output, bool) {
	return s.cache.get(id)
}

// CheckReadiness reports whether the publisher, if any, can be reached.
func (s *Service) CheckReadiness(ctx context.Context) error {
	p, ok := s.publisher.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("publisher not reachable: %w", err)
	}
	return nil
}
