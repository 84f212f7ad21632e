package profile

import (
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/audio"
	"github.com/akshaya3107/AI-Powered-Voice-Antispoofing-Detection/internal/features"
)

// AcousticProfile is the aggregated, renderable summary of one clip.
// It is immutable after assembly; undefined pitch/energy marshal as JSON
// null. Waveform carries the full normalized sample sequence for plotting.
type AcousticProfile struct {
	SampleCount     int             `json:"sample_count"`
	SampleRate      int             `json:"sample_rate"`
	DurationSeconds float64         `json:"duration_seconds"`
	AveragePitchHz  features.Scalar `json:"average_pitch_hz"`
	AverageEnergy   features.Scalar `json:"average_energy"`
	Waveform        []float64       `json:"waveform"`
}

// Empty returns the fallback profile used when decoding failed outright:
// zero counts, undefined pitch and energy, empty waveform. The presentation
// layer can render it like any other profile.
func Empty() *AcousticProfile {
	return &AcousticProfile{
		SampleCount:     0,
		SampleRate:      0,
		DurationSeconds: 0,
		AveragePitchHz:  features.Undefined(),
		AverageEnergy:   features.Undefined(),
		Waveform:        []float64{},
	}
}

// Assemble aggregates the normalized signal and its extracted features
// into a profile. Pure aggregation: upstream failures have already been
// converted to safe defaults, so this cannot fail.
func Assemble(sig *audio.Signal, feats features.Features) *AcousticProfile {
	if sig == nil || len(sig.Samples) == 0 {
		return Empty()
	}

	return &AcousticProfile{
		SampleCount:     len(sig.Samples),
		SampleRate:      sig.SampleRate,
		DurationSeconds: feats.DurationSeconds,
		AveragePitchHz:  feats.AveragePitchHz,
		AverageEnergy:   feats.AverageEnergy,
		Waveform:        sig.Samples,
	}
}
