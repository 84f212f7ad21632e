// Package audio turns an arbitrary stored audio file into a canonical
// normalized signal: decoded samples, collapsed to mono by per-sample
// channel averaging, coerced to float64 and resampled to 16 kHz with a
// band-limited kernel. It supports WAV, MP3, FLAC and OGG/Vorbis input,
// selected by content sniffing with the file extension as a tie-breaker.
package audio
