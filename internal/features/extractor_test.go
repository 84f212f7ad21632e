package features

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
)

func sineSignal(freq float64, sampleRate int, duration, amplitude float64) *audio.Signal {
	n := int(float64(sampleRate) * duration)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &audio.Signal{Samples: samples, SampleRate: sampleRate}
}

func silenceSignal(sampleRate int, duration float64) *audio.Signal {
	return &audio.Signal{
		Samples:    make([]float64, int(float64(sampleRate)*duration)),
		SampleRate: sampleRate,
	}
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	e, err := NewExtractor(DefaultConfig())
	if err != nil {
		t.Fatalf("NewExtractor() failed: %v", err)
	}
	return e
}

func TestExtractSineTone(t *testing.T) {
	e := newTestExtractor(t)

	sig := sineSignal(120, 16000, 1.0, 0.5)
	feats := e.Extract(sig)

	if math.Abs(feats.DurationSeconds-1.0) > 1e-9 {
		t.Errorf("DurationSeconds = %f, want 1.0", feats.DurationSeconds)
	}

	if !feats.AveragePitchHz.Defined {
		t.Fatal("pitch of a 120 Hz tone should be defined")
	}
	if math.Abs(feats.AveragePitchHz.Value-120) > 2 {
		t.Errorf("AveragePitchHz = %f, want 120 +- 2", feats.AveragePitchHz.Value)
	}

	if !feats.AverageEnergy.Defined {
		t.Fatal("energy of a tone should be defined")
	}
	wantRMS := 0.5 / math.Sqrt2
	if math.Abs(feats.AverageEnergy.Value-wantRMS) > 0.01 {
		t.Errorf("AverageEnergy = %f, want %f +- 0.01", feats.AverageEnergy.Value, wantRMS)
	}

	if feats.PitchErr != nil || feats.EnergyErr != nil {
		t.Errorf("unexpected feature errors: pitch=%v energy=%v", feats.PitchErr, feats.EnergyErr)
	}
}

func TestExtractSilence(t *testing.T) {
	e := newTestExtractor(t)

	feats := e.Extract(silenceSignal(16000, 1.0))

	// Silence has no pitch; that is a legitimate undefined, not an error.
	if feats.AveragePitchHz.Defined {
		t.Errorf("pitch of silence = %v, want undefined", feats.AveragePitchHz)
	}
	if feats.PitchErr != nil {
		t.Errorf("PitchErr = %v, want nil for silence", feats.PitchErr)
	}

	// Silence has a defined energy of zero.
	if !feats.AverageEnergy.Defined {
		t.Fatal("energy of silence should be defined")
	}
	if feats.AverageEnergy.Value != 0 {
		t.Errorf("AverageEnergy = %f, want 0", feats.AverageEnergy.Value)
	}
}

func TestExtractEmptySignal(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		sig  *audio.Signal
	}{
		{"nil signal", nil},
		{"zero samples", &audio.Signal{SampleRate: 16000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feats := e.Extract(tt.sig)

			if feats.DurationSeconds != 0 {
				t.Errorf("DurationSeconds = %f, want 0", feats.DurationSeconds)
			}
			if feats.AveragePitchHz.Defined {
				t.Error("pitch should be undefined for an empty signal")
			}
			if feats.AverageEnergy.Defined {
				t.Error("energy should be undefined for an empty signal")
			}
		})
	}
}

func TestExtractShortClip(t *testing.T) {
	e := newTestExtractor(t)

	// Shorter than one analysis frame; the whole clip is analyzed as a
	// single frame and energy must still come out defined.
	sig := sineSignal(200, 16000, 0.05, 0.5)
	feats := e.Extract(sig)

	if !feats.AverageEnergy.Defined {
		t.Error("energy of a short clip should be defined")
	}
	if feats.EnergyErr != nil {
		t.Errorf("EnergyErr = %v, want nil", feats.EnergyErr)
	}
}

func TestIsolateRecoversPanic(t *testing.T) {
	result, err := isolate("pitch", func() (Scalar, error) {
		panic("index out of range")
	})

	if result.Defined {
		t.Error("panicking computation should yield undefined")
	}

	var featErr *FeatureError
	if !errors.As(err, &featErr) {
		t.Fatalf("error = %v (%T), want *FeatureError", err, err)
	}
	if featErr.Feature != "pitch" {
		t.Errorf("Feature = %q, want %q", featErr.Feature, "pitch")
	}
}

func TestIsolateWrapsError(t *testing.T) {
	inner := fmt.Errorf("no frames")
	result, err := isolate("energy", func() (Scalar, error) {
		return Scalar{}, inner
	})

	if result.Defined {
		t.Error("failed computation should yield undefined")
	}

	var featErr *FeatureError
	if !errors.As(err, &featErr) {
		t.Fatalf("error = %v (%T), want *FeatureError", err, err)
	}
	if !errors.Is(err, inner) {
		t.Errorf("error %v should unwrap to %v", err, inner)
	}
}

func TestFrames(t *testing.T) {
	tests := []struct {
		name        string
		sampleCount int
		frameLength int
		hopLength   int
		wantFrames  int
	}{
		{"empty", 0, 2048, 512, 0},
		{"shorter than frame", 1000, 2048, 512, 1},
		{"exactly one frame", 2048, 2048, 512, 1},
		{"one second default", 16000, 2048, 512, 28},
		{"no overlap", 4096, 2048, 2048, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frames(make([]float64, tt.sampleCount), tt.frameLength, tt.hopLength)
			if len(got) != tt.wantFrames {
				t.Errorf("frames() count = %d, want %d", len(got), tt.wantFrames)
			}
		})
	}
}

func TestRMS(t *testing.T) {
	if got := rms(nil); got != 0 {
		t.Errorf("rms(nil) = %f, want 0", got)
	}

	if got := rms([]float64{3, 4}); math.Abs(got-math.Sqrt(12.5)) > 1e-12 {
		t.Errorf("rms([3 4]) = %f, want %f", got, math.Sqrt(12.5))
	}
}
