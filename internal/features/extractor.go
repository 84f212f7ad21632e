package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
)

// FeatureError indicates that a single feature computation failed. It is
// recovered locally: the feature collapses to undefined and the sibling
// feature is still attempted.
type FeatureError struct {
	Feature string
	Err     error
}

// Error implements the error interface
func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %s: %v", e.Feature, e.Err)
}

// Unwrap returns the underlying error
func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Config contains feature extraction parameters
type Config struct {
	PitchMinHz        float64
	PitchMaxHz        float64
	PitchFrameLength  int // samples
	PitchHopLength    int // samples
	YinThreshold      float64
	EnergyFrameLength int // samples
	EnergyHopLength   int // samples
}

// DefaultConfig returns the extraction parameters used in production:
// voice-range pitch search over 128 ms frames with 32 ms hops
func DefaultConfig() Config {
	return Config{
		PitchMinHz:        50,
		PitchMaxHz:        300,
		PitchFrameLength:  2048,
		PitchHopLength:    512,
		YinThreshold:      0.1,
		EnergyFrameLength: 2048,
		EnergyHopLength:   512,
	}
}

// Features holds the extracted scalar descriptors. PitchErr and EnergyErr
// carry the cause when the corresponding scalar collapsed to undefined
// through a failure rather than through a legitimately pitchless signal.
type Features struct {
	DurationSeconds float64
	AveragePitchHz  Scalar
	AverageEnergy   Scalar
	PitchErr        error
	EnergyErr       error
}

// Extractor computes acoustic features from normalized signals
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor with the given parameters
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.PitchMinHz <= 0 || cfg.PitchMaxHz <= cfg.PitchMinHz {
		return nil, fmt.Errorf("pitch range [%f, %f] is invalid", cfg.PitchMinHz, cfg.PitchMaxHz)
	}

	if cfg.PitchFrameLength <= 0 || cfg.PitchHopLength <= 0 {
		return nil, fmt.Errorf("pitch frame/hop must be positive, got %d/%d",
			cfg.PitchFrameLength, cfg.PitchHopLength)
	}

	if cfg.YinThreshold <= 0 || cfg.YinThreshold >= 1 {
		return nil, fmt.Errorf("yin threshold must be between 0 and 1 (exclusive), got %f", cfg.YinThreshold)
	}

	if cfg.EnergyFrameLength <= 0 || cfg.EnergyHopLength <= 0 {
		return nil, fmt.Errorf("energy frame/hop must be positive, got %d/%d",
			cfg.EnergyFrameLength, cfg.EnergyHopLength)
	}

	return &Extractor{cfg: cfg}, nil
}

// Extract computes duration, average pitch and average energy for the
// signal. Pitch and energy run inside independent failure boundaries:
// partial acoustic data is always better than none, so a collapse of one
// never suppresses the other.
func (e *Extractor) Extract(sig *audio.Signal) Features {
	feats := Features{DurationSeconds: sig.Duration()}

	if sig == nil || len(sig.Samples) == 0 {
		feats.AveragePitchHz = Undefined()
		feats.AverageEnergy = Undefined()
		return feats
	}

	feats.AveragePitchHz, feats.PitchErr = isolate("pitch", func() (Scalar, error) {
		return e.averagePitch(sig)
	})

	feats.AverageEnergy, feats.EnergyErr = isolate("energy", func() (Scalar, error) {
		return e.averageEnergy(sig)
	})

	return feats
}

// isolate runs one feature computation behind its own recover boundary.
// Errors and panics both become a FeatureError plus the undefined
// sentinel; nothing escapes to the caller.
func isolate(name string, fn func() (Scalar, error)) (result Scalar, ferr error) {
	defer func() {
		if r := recover(); r != nil {
			result = Undefined()
			ferr = &FeatureError{Feature: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	value, err := fn()
	if err != nil {
		return Undefined(), &FeatureError{Feature: name, Err: err}
	}
	return value, nil
}

// averagePitch runs the YIN tracker over overlapping frames and averages
// the defined per-frame estimates. Frames with no reliable pitch are
// skipped; if no frame yields an estimate the result is undefined, which
// is a legitimate outcome (silence has no pitch), not an error.
func (e *Extractor) averagePitch(sig *audio.Signal) (Scalar, error) {
	minLag := int(float64(sig.SampleRate) / e.cfg.PitchMaxHz)
	maxLag := int(float64(sig.SampleRate) / e.cfg.PitchMinHz)

	var estimates []float64
	for _, frame := range frames(sig.Samples, e.cfg.PitchFrameLength, e.cfg.PitchHopLength) {
		f0, ok := yinFrame(frame, sig.SampleRate, minLag, maxLag, e.cfg.YinThreshold)
		if ok {
			estimates = append(estimates, f0)
		}
	}

	if len(estimates) == 0 {
		return Undefined(), nil
	}

	return Of(stat.Mean(estimates, nil)), nil
}

// averageEnergy computes root-mean-square amplitude per frame and averages
// across frames. Silence is a defined 0, not undefined.
func (e *Extractor) averageEnergy(sig *audio.Signal) (Scalar, error) {
	frameSet := frames(sig.Samples, e.cfg.EnergyFrameLength, e.cfg.EnergyHopLength)

	values := make([]float64, 0, len(frameSet))
	for _, frame := range frameSet {
		values = append(values, rms(frame))
	}

	if len(values) == 0 {
		return Undefined(), fmt.Errorf("no analysis frames produced")
	}

	return Of(stat.Mean(values, nil)), nil
}

// frames splits samples into overlapping analysis frames. A clip shorter
// than one frame length is analyzed as a single whole-signal frame so
// short recordings still produce features.
func frames(samples []float64, frameLength, hopLength int) [][]float64 {
	if len(samples) == 0 {
		return nil
	}

	if len(samples) < frameLength {
		return [][]float64{samples}
	}

	var out [][]float64
	for start := 0; start+frameLength <= len(samples); start += hopLength {
		out = append(out, samples[start:start+frameLength])
	}
	return out
}

// rms returns the root-mean-square amplitude of one frame
func rms(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}

	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
