package audio

import "math"

// resampleTaps is the number of sinc zero crossings kept on each side of
// the interpolation point. 16 gives well over 80 dB of stopband rejection,
// far more than a 16-bit source can use.
const resampleTaps = 16

// Resample converts in from srcRate to dstRate using a Hann-windowed sinc
// kernel. When downsampling, the kernel cutoff is lowered to the output
// Nyquist frequency so aliasing is suppressed rather than folded back.
// The output length is ceil(n * dstRate / srcRate); equal rates return the
// input unchanged.
func Resample(in []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(in) == 0 || srcRate <= 0 || dstRate <= 0 {
		return in
	}

	ratio := float64(dstRate) / float64(srcRate)
	outLen := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float64, outLen)

	// Band-limit to the lower of the two Nyquist frequencies, with a small
	// margin for the window rolloff.
	cutoff := 1.0
	if ratio < 1 {
		cutoff = ratio
	}
	cutoff *= 0.95

	scaledTaps := float64(resampleTaps)
	if ratio < 1 {
		// Stretch the kernel when downsampling so it still spans
		// resampleTaps zero crossings of the lowered cutoff.
		scaledTaps /= ratio
	}
	halfWidth := int(math.Ceil(scaledTaps))

	for i := range out {
		center := float64(i) / ratio
		left := int(math.Floor(center)) - halfWidth + 1
		right := int(math.Floor(center)) + halfWidth

		var acc, norm float64
		for j := left; j <= right; j++ {
			if j < 0 || j >= len(in) {
				continue
			}
			w := windowedSinc(cutoff*(center-float64(j)), (center-float64(j))/scaledTaps)
			acc += in[j] * w
			norm += w
		}
		if norm != 0 {
			out[i] = acc / norm
		}
	}

	return out
}

// windowedSinc evaluates sinc(x) shaped by a Hann window over t in [-1, 1]
func windowedSinc(x, t float64) float64 {
	if t <= -1 || t >= 1 {
		return 0
	}

	window := 0.5 * (1 + math.Cos(math.Pi*t))
	if x == 0 {
		return window
	}

	px := math.Pi * x
	return window * math.Sin(px) / px
}
