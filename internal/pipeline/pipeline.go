package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/classifier"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/features"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/metrics"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/profile"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/storage"
)

// Source identifies how the audio entered the system
type Source string

const (
	// SourceUpload is a file uploaded by the user; it undergoes real
	// classification
	SourceUpload Source = "upload"
	// SourceRecord is microphone-captured audio; classification is
	// bypassed by policy (see Analyze)
	SourceRecord Source = "record"
)

// recordedVerdictMessage is the exact verdict text reported for
// microphone-sourced clips.
const recordedVerdictMessage = "This audio was recorded live and is classified as REAL."

// Request is one clip to analyze
type Request struct {
	Filename string
	Bytes    []byte
	Source   Source
}

// Result is the triple returned to the presentation layer. Profile is
// always non-nil and well-formed, even when decoding or classification
// failed.
type Result struct {
	Status  classifier.Status        `json:"status"`
	Message string                   `json:"message"`
	Label   classifier.Label         `json:"label"`
	Profile *profile.AcousticProfile `json:"profile"`
}

// Pipeline orchestrates the analysis stages for independent, concurrent
// requests. It holds no per-request state.
type Pipeline struct {
	decoder   *audio.Decoder
	extractor *features.Extractor
	adapter   *classifier.Adapter
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a pipeline from its stage implementations
func New(decoder *audio.Decoder, extractor *features.Extractor,
	adapter *classifier.Adapter, m *metrics.Metrics, logger *slog.Logger) *Pipeline {

	return &Pipeline{
		decoder:   decoder,
		extractor: extractor,
		adapter:   adapter,
		metrics:   m,
		logger:    logger,
	}
}

// Analyze runs the full pipeline for one request. The returned error is
// non-nil only for storage failures; every other failure mode is absorbed
// into the result.
//
// Record-sourced clips skip classification entirely and are reported as
// REAL with a forced Success verdict. This is a deliberate product-level
// policy for live microphone input, not an inference result.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.NewString()
	startTime := time.Now()

	logger := p.logger.With(
		slog.String("request_id", requestID),
		slog.String("source", string(req.Source)),
		slog.String("filename", req.Filename),
	)

	logger.Info("Analysis started", slog.Int("bytes", len(req.Bytes)))
	p.metrics.UploadSize.Observe(float64(len(req.Bytes)))

	var result *Result
	err := storage.WithStoredFile(storage.Blob{Filename: req.Filename, Bytes: req.Bytes},
		func(path string) error {
			result = p.run(ctx, logger, req.Source, path)
			return nil
		})
	if err != nil {
		logger.Error("Failed to persist audio", slog.String("error", err.Error()))
		return nil, err
	}

	p.metrics.AnalysesTotal.WithLabelValues(string(req.Source), result.Status.String()).Inc()
	p.metrics.AnalysisDuration.Observe(time.Since(startTime).Seconds())

	logger.Info("Analysis finished",
		slog.String("status", result.Status.String()),
		slog.String("label", string(result.Label)),
		slog.Float64("duration_seconds", result.Profile.DurationSeconds),
		slog.Duration("elapsed", time.Since(startTime)),
	)

	return result, nil
}

// run executes the stages against the stored file. It is called inside
// the storage scope, so the file is guaranteed to exist for its duration
// and to be cleaned up afterwards.
func (p *Pipeline) run(ctx context.Context, logger *slog.Logger, source Source, path string) *Result {
	prof := p.buildProfile(logger, path)

	if source == SourceRecord {
		p.metrics.ClassifierSkipped.Inc()
		verdict := classifier.NewVerdict(classifier.StatusSuccess, recordedVerdictMessage)
		return &Result{
			Status:  verdict.Status,
			Message: verdict.Message,
			Label:   verdict.Label,
			Profile: prof,
		}
	}

	p.metrics.ClassifierRequests.Inc()
	classifyStart := time.Now()
	verdict := p.adapter.Classify(ctx, path)
	p.metrics.ClassifierDuration.Observe(time.Since(classifyStart).Seconds())
	if verdict.Status != classifier.StatusSuccess {
		p.metrics.ClassifierFailures.Inc()
	}

	return &Result{
		Status:  verdict.Status,
		Message: verdict.Message,
		Label:   verdict.Label,
		Profile: prof,
	}
}

// buildProfile decodes the stored file and extracts features, degrading
// every failure into the appropriate safe default. Decode failure yields
// the empty profile; per-feature failures yield undefined scalars.
func (p *Pipeline) buildProfile(logger *slog.Logger, path string) *profile.AcousticProfile {
	sig, err := p.decoder.DecodeFile(path)
	if err != nil {
		p.metrics.DecodeFailures.Inc()
		logger.Warn("Decode failed, falling back to empty profile",
			slog.String("error", err.Error()),
		)
		return profile.Empty()
	}

	feats := p.extractor.Extract(sig)
	if feats.PitchErr != nil {
		p.metrics.FeatureFailures.WithLabelValues("pitch").Inc()
		logger.Warn("Pitch extraction failed", slog.String("error", feats.PitchErr.Error()))
	}
	if feats.EnergyErr != nil {
		p.metrics.FeatureFailures.WithLabelValues("energy").Inc()
		logger.Warn("Energy extraction failed", slog.String("error", feats.EnergyErr.Error()))
	}

	p.metrics.AudioDuration.Observe(feats.DurationSeconds)

	return profile.Assemble(sig, feats)
}
