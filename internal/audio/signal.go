package audio

// TargetSampleRate is the canonical rate every decoded signal is
// normalized to. The classifier and the feature extractor both assume it.
const TargetSampleRate = 16000

// Signal is a single-channel floating-point sample sequence. After
// normalization SampleRate is always TargetSampleRate whenever Samples is
// non-empty.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds, 0 for an empty signal
func (s *Signal) Duration() float64 {
	if s == nil || len(s.Samples) == 0 || s.SampleRate == 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// mixdown collapses interleaved multi-channel samples to mono by
// arithmetic averaging across channels per sample position. Averaging
// (rather than picking one channel) preserves energy from all channels.
func mixdown(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}

	mono := make([]float64, len(interleaved)/channels)
	for i := range mono {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
