package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/couchcryptid/discharge-compliance-service/internal/domain"
	"github.com/couchcryptid/discharge-compliance-service/internal/export"
	"github.com/couchcryptid/discharge-compliance-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analyzer runs analyses and serves their cached artefacts.
type Analyzer interface {
	sharedobs.ReadinessChecker
	Run(ctx context.Context, src io.Reader, logsheet string) (*pipeline.Output, error)
	Lookup(id string) (*pipeline.Output, bool)
}

// analysisResponse is the body returned for a successful upload.
type analysisResponse struct {
	ID     string                `json:"id"`
	Result domain.AnalysisResult `json:"result"`
	Report string                `json:"report"`
}

// Server exposes the analysis API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer     *http.Server
	analyzer       Analyzer
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer creates an HTTP server with the analysis routes plus /healthz, /readyz, and /metrics.
func NewServer(addr string, analyzer Analyzer, maxUploadBytes int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(analyzer))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/analyses", s.handleAnalyze)
	mux.HandleFunc("GET /api/v1/analyses/{id}/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/analyses/{id}/chart.png", s.handleChart)
	mux.HandleFunc("GET /api/v1/analyses/{id}/report.pdf", s.handlePDF)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	src, logsheet, err := s.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.analyzer.Run(r.Context(), src, logsheet)
	if err != nil {
		if errors.Is(err, domain.ErrDataFormat) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("analysis request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, analysisResponse{
		ID:     out.ID,
		Result: out.Result,
		Report: out.Report,
	})
}

// readUpload accepts either a multipart form with a "file" field and an
// optional "logsheet" field, or a raw CSV body with ?logsheet= in the query.
func (s *Server) readUpload(r *http.Request) (io.Reader, string, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil && r.Header.Get("Content-Type") != "" {
		return nil, "", errors.New("invalid content type")
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
			return nil, "", err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New(`missing "file" form field`)
		}
		defer file.Close()
		body, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(body), r.FormValue("logsheet"), nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	if len(body) == 0 {
		return nil, "", errors.New("empty request body")
	}
	return bytes.NewReader(body), r.URL.Query().Get("logsheet"), nil
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	out, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeBytes(w, "text/markdown; charset=utf-8", []byte(out.Report))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	out, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeBytes(w, "image/png", out.ChartPNG)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	out, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.DefaultFileName+`"`)
	writeBytes(w, "application/pdf", out.PDF)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*pipeline.Output, bool) {
	out, ok := s.analyzer.Lookup(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "analysis not found")
		return nil, false
	}
	return out, true
}

func writeBytes(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
