package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/classifier"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/features"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/metrics"
)

// Prometheus collectors register globally, so the test binary shares one
// metrics instance across all tests.
var testMetrics = metrics.NewMetrics()

// stubClassifier records the invocation and replays a scripted verdict
type stubClassifier struct {
	verdict  classifier.Verdict
	err      error
	calls    int
	lastPath string
}

func (s *stubClassifier) Classify(ctx context.Context, path string) (classifier.Verdict, error) {
	s.calls++
	s.lastPath = path
	return s.verdict, s.err
}

func newTestPipeline(t *testing.T, stub *stubClassifier) *Pipeline {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	decoder, err := audio.NewDecoder(16000, 0, nil)
	if err != nil {
		t.Fatalf("NewDecoder() failed: %v", err)
	}

	extractor, err := features.NewExtractor(features.DefaultConfig())
	if err != nil {
		t.Fatalf("NewExtractor() failed: %v", err)
	}

	adapter := classifier.NewAdapter(stub, logger)

	return New(decoder, extractor, adapter, testMetrics, logger)
}

func silenceWAV(t *testing.T, sampleRate, channels int, duration float64) []byte {
	t.Helper()

	frames := int(float64(sampleRate) * duration)
	data, err := audio.EncodeWAV(make([]int16, frames*channels), channels, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV() failed: %v", err)
	}
	return data
}

func TestAnalyzeUpload(t *testing.T) {
	stub := &stubClassifier{
		verdict: classifier.NewVerdict(classifier.StatusSuccess, "The audio is classified as REAL."),
	}
	p := newTestPipeline(t, stub)

	// 2 seconds of 44.1 kHz stereo silence normalizes to 32000 mono
	// samples at 16 kHz.
	result, err := p.Analyze(context.Background(), Request{
		Filename: "meeting.wav",
		Bytes:    silenceWAV(t, 44100, 2, 2.0),
		Source:   SourceUpload,
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if result.Status != classifier.StatusSuccess {
		t.Errorf("Status = %v, want success", result.Status)
	}
	if result.Label != classifier.LabelReal {
		t.Errorf("Label = %q, want %q", result.Label, classifier.LabelReal)
	}
	if stub.calls != 1 {
		t.Errorf("classifier called %d times, want 1", stub.calls)
	}

	prof := result.Profile
	if prof.SampleCount != 32000 {
		t.Errorf("SampleCount = %d, want 32000", prof.SampleCount)
	}
	if prof.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", prof.SampleRate)
	}
	if math.Abs(prof.DurationSeconds-2.0) > 1e-9 {
		t.Errorf("DurationSeconds = %f, want 2.0", prof.DurationSeconds)
	}
	if prof.AveragePitchHz.Defined {
		t.Error("pitch of silence should be undefined")
	}
	if !prof.AverageEnergy.Defined || prof.AverageEnergy.Value != 0 {
		t.Errorf("AverageEnergy = %+v, want defined 0", prof.AverageEnergy)
	}
}

func TestAnalyzeCorruptUploadStillClassifies(t *testing.T) {
	// Decode failure degrades to the empty profile but must not suppress
	// classification: the collaborator does its own decoding.
	stub := &stubClassifier{err: errors.New("unsupported codec")}
	p := newTestPipeline(t, stub)

	result, err := p.Analyze(context.Background(), Request{
		Filename: "broken.wav",
		Bytes:    []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
		Source:   SourceUpload,
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if stub.calls != 1 {
		t.Errorf("classifier called %d times, want 1 even after decode failure", stub.calls)
	}

	if result.Status != classifier.StatusFailure {
		t.Errorf("Status = %v, want failure", result.Status)
	}
	if result.Message == "" {
		t.Error("failure result should carry a diagnostic message")
	}

	prof := result.Profile
	if prof == nil {
		t.Fatal("Profile must never be nil")
	}
	if prof.SampleCount != 0 || prof.AveragePitchHz.Defined || prof.AverageEnergy.Defined {
		t.Errorf("Profile = %+v, want the empty fallback profile", prof)
	}
}

func TestAnalyzeRecordBypassesClassifier(t *testing.T) {
	// Even a classifier that would judge the clip FAKE must not run in
	// record mode.
	stub := &stubClassifier{
		verdict: classifier.NewVerdict(classifier.StatusSuccess, "The audio is classified as FAKE."),
	}
	p := newTestPipeline(t, stub)

	result, err := p.Analyze(context.Background(), Request{
		Filename: "live.wav",
		Bytes:    silenceWAV(t, 16000, 1, 1.0),
		Source:   SourceRecord,
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if stub.calls != 0 {
		t.Errorf("classifier called %d times in record mode, want 0", stub.calls)
	}
	if result.Status != classifier.StatusSuccess {
		t.Errorf("Status = %v, want success", result.Status)
	}
	if result.Message != "This audio was recorded live and is classified as REAL." {
		t.Errorf("Message = %q", result.Message)
	}
	if result.Label != classifier.LabelReal {
		t.Errorf("Label = %q, want %q", result.Label, classifier.LabelReal)
	}

	// The acoustic profile is still produced in record mode.
	if result.Profile.SampleCount != 16000 {
		t.Errorf("SampleCount = %d, want 16000", result.Profile.SampleCount)
	}
}

func TestAnalyzeCleansUpStoredFile(t *testing.T) {
	stub := &stubClassifier{
		verdict: classifier.NewVerdict(classifier.StatusSuccess, "ok"),
	}
	p := newTestPipeline(t, stub)

	_, err := p.Analyze(context.Background(), Request{
		Filename: "clip.wav",
		Bytes:    silenceWAV(t, 16000, 1, 0.5),
		Source:   SourceUpload,
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if stub.lastPath == "" {
		t.Fatal("classifier never saw a stored file path")
	}
	if _, statErr := os.Stat(stub.lastPath); !os.IsNotExist(statErr) {
		t.Errorf("stored file %s still exists after the run", stub.lastPath)
	}
}

func TestAnalyzeSanitizesFilename(t *testing.T) {
	stub := &stubClassifier{
		verdict: classifier.NewVerdict(classifier.StatusSuccess, "ok"),
	}
	p := newTestPipeline(t, stub)

	_, err := p.Analyze(context.Background(), Request{
		Filename: "../../etc/clip.wav",
		Bytes:    silenceWAV(t, 16000, 1, 0.1),
		Source:   SourceUpload,
	})
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if got := stub.lastPath; got == "" || got[len(got)-8:] != "clip.wav" {
		t.Errorf("stored path = %q, want sanitized clip.wav basename", got)
	}
}
