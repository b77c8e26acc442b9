package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "discharge_compliance"

// Analysis outcomes used as the "outcome" label of AnalysesTotal.
const (
	OutcomeCompliant    = "compliant"
	OutcomeNonCompliant = "non_compliant"
	OutcomeInvalidData  = "invalid_data"
	OutcomeError        = "error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the analysis pipeline.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec // labels: outcome={compliant,non_compliant,invalid_data,error}
	RecordsAnalyzed    prometheus.Counter
	NonCompliantTotal  prometheus.Counter
	AnalysisDuration   prometheus.Histogram
	PublishErrors      prometheus.Counter
	ResultCacheEntries prometheus.Gauge
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      help("Compliance analyses by outcome."),
		}, []string{"outcome"}),
		RecordsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_analyzed_total",
			Help:      help("Logsheet records evaluated against the discharge standard."),
		}),
		NonCompliantTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "noncompliant_records_total",
			Help:      help("Records that breached at least one discharge limit."),
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      help("Duration of a full parse-analyze-render cycle."),
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Failed publications of analysis summaries."),
		}),
		ResultCacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "result_cache_entries",
			Help:      help("Analyses currently held for artefact download."),
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.RecordsAnalyzed,
		m.NonCompliantTotal,
		m.AnalysisDuration,
		m.PublishErrors,
		m.ResultCacheEntries,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}
