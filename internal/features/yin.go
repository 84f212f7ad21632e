package features

import "math"

// yinFrame estimates the fundamental frequency of one analysis frame using
// the YIN method: difference function, cumulative mean normalized
// difference, absolute threshold, parabolic refinement of the selected
// lag. The ok result is false when the frame carries no reliable pitch
// (silence, noise, or no trough under the threshold).
func yinFrame(frame []float64, sampleRate, minLag, maxLag int, threshold float64) (float64, bool) {
	if minLag < 1 {
		minLag = 1
	}
	if maxLag <= minLag || len(frame) < 2*maxLag {
		return 0, false
	}

	window := len(frame) - maxLag

	// Difference function d(tau) over the integration window.
	diff := make([]float64, maxLag+1)
	for tau := 1; tau <= maxLag; tau++ {
		var sum float64
		for j := 0; j < window; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference d'(tau). A zero running sum
	// means the frame is flat; there is no pitch to find.
	cmnd := make([]float64, maxLag+1)
	cmnd[0] = 1
	var running float64
	for tau := 1; tau <= maxLag; tau++ {
		running += diff[tau]
		if running == 0 {
			return 0, false
		}
		cmnd[tau] = diff[tau] * float64(tau) / running
	}

	// First trough below the absolute threshold within the lag range.
	tau := -1
	for t := minLag; t <= maxLag; t++ {
		if cmnd[t] < threshold {
			for t+1 <= maxLag && cmnd[t+1] < cmnd[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		return 0, false
	}

	refined := refineLag(cmnd, tau)
	f0 := float64(sampleRate) / refined
	if math.IsNaN(f0) || math.IsInf(f0, 0) {
		return 0, false
	}

	return f0, true
}

// refineLag applies parabolic interpolation around the selected trough to
// recover sub-sample lag precision
func refineLag(cmnd []float64, tau int) float64 {
	if tau <= 0 || tau >= len(cmnd)-1 {
		return float64(tau)
	}

	left, mid, right := cmnd[tau-1], cmnd[tau], cmnd[tau+1]
	denom := left - 2*mid + right
	if denom == 0 {
		return float64(tau)
	}

	shift := 0.5 * (left - right) / denom
	if shift > 1 || shift < -1 {
		return float64(tau)
	}

	return float64(tau) + shift
}
