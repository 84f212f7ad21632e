package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/classifier"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/config"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/metrics"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/pipeline"
)

// HTTPServer provides the HTTP API for audio analysis
type HTTPServer struct {
	config   *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	pipeline *pipeline.Pipeline
	client   *classifier.Client

	server *http.Server
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics,
	p *pipeline.Pipeline, client *classifier.Client) *HTTPServer {

	s := &HTTPServer{
		config:   cfg,
		logger:   logger,
		metrics:  m,
		pipeline: p,
		client:   client,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/analyze", s.withMetrics("analyze", s.handleAnalyze))
	mux.HandleFunc("/health", s.withMetrics("health", s.handleHealth))
	mux.HandleFunc("/config", s.withMetrics("config", s.handleConfig))
	mux.HandleFunc("/stats", s.withMetrics("stats", s.handleStats))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.withMetrics("index", s.handleIndex))

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.GetRequestTimeoutDuration(),
		WriteTimeout: cfg.HTTP.GetRequestTimeoutDuration(),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP API server",
		slog.String("address", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP API server")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// withMetrics wraps a handler with request metrics and logging
func (s *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(rw.statusCode), duration.Seconds())

		s.logger.Debug("HTTP request completed",
			slog.String("method", r.Method),
			slog.String("endpoint", endpoint),
			slog.Int("status", rw.statusCode),
			slog.Duration("duration", duration),
		)
	}
}

// errorResponse is the JSON body for non-2xx responses
type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, endpoint string, code int, errorType, message string) {
	s.metrics.RecordHTTPError(r.Method, endpoint, errorType)
	s.writeJSON(w, code, errorResponse{Error: message})
}

// handleAnalyze accepts a multipart upload and runs the analysis pipeline.
// The form carries the audio under "file" and an optional "source" field
// ("upload" or "record", defaulting to "upload").
func (s *HTTPServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, "analyze", http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.HTTP.GetMaxUploadSizeBytes())

	if err := r.ParseMultipartForm(s.config.HTTP.GetMaxUploadSizeBytes()); err != nil {
		s.writeError(w, r, "analyze", http.StatusBadRequest, "bad_multipart",
			fmt.Sprintf("failed to parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, "analyze", http.StatusBadRequest, "missing_file", "form field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, "analyze", http.StatusBadRequest, "read_failed",
			fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}

	source := pipeline.Source(r.FormValue("source"))
	switch source {
	case "":
		source = pipeline.SourceUpload
	case pipeline.SourceUpload, pipeline.SourceRecord:
	default:
		s.writeError(w, r, "analyze", http.StatusBadRequest, "bad_source",
			"source must be 'upload' or 'record'")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.HTTP.GetRequestTimeoutDuration())
	defer cancel()

	result, err := s.pipeline.Analyze(ctx, pipeline.Request{
		Filename: header.Filename,
		Bytes:    data,
		Source:   source,
	})
	if err != nil {
		s.writeError(w, r, "analyze", http.StatusInternalServerError, "storage_failed",
			"failed to persist uploaded audio")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth returns the service health status
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, "health", http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "voice-antispoofing-service",
	})
}

// handleConfig returns the active configuration with secrets redacted
func (s *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, "config", http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	redacted := *s.config
	if redacted.Classifier.APIKey != "" {
		redacted.Classifier.APIKey = "***"
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"http": map[string]any{
			"port":               redacted.HTTP.Port,
			"address":            redacted.HTTP.Address,
			"max_upload_size_mb": redacted.HTTP.MaxUploadSizeMB,
			"request_timeout":    redacted.HTTP.RequestTimeout,
		},
		"audio": map[string]any{
			"target_sample_rate": redacted.Audio.TargetSampleRate,
			"max_duration":       redacted.Audio.MaxDuration,
			"accepted_formats":   redacted.Audio.AcceptedFormats,
		},
		"features": map[string]any{
			"pitch_min_hz":  redacted.Features.PitchMinHz,
			"pitch_max_hz":  redacted.Features.PitchMaxHz,
			"yin_threshold": redacted.Features.YinThreshold,
		},
		"classifier": map[string]any{
			"endpoint":       redacted.Classifier.Endpoint,
			"api_key":        redacted.Classifier.APIKey,
			"timeout":        redacted.Classifier.Timeout,
			"max_retries":    redacted.Classifier.MaxRetries,
			"max_concurrent": redacted.Classifier.MaxConcurrent,
		},
	})
}

// handleStats returns classifier client statistics
func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, "stats", http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"classifier": s.client.GetStats(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// handleIndex lists the available endpoints
func (s *HTTPServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, r, "index", http.StatusNotFound, "not_found", "endpoint not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "voice-antispoofing-service",
		"endpoints": map[string]string{
			"POST /api/v1/analyze": "analyze an audio clip (multipart: file, source)",
			"GET /health":          "service health",
			"GET /config":          "active configuration",
			"GET /stats":           "classifier client statistics",
			"GET /metrics":         "Prometheus metrics",
		},
	})
}
