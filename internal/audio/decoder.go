package audio

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// DecodeError indicates that the stored file could not be parsed as audio.
// The pipeline recovers from it by producing the empty fallback profile;
// it never aborts a run.
type DecodeError struct {
	Format Format
	Err    error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Format == FormatUnknown {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder decodes stored audio files into normalized mono signals at the
// target sample rate
type Decoder struct {
	targetRate  int
	maxDuration float64 // seconds, 0 disables the guard
	accepted    map[Format]bool
}

// NewDecoder creates a decoder normalizing to the given sample rate.
// maxDuration bounds the decoded clip length; 0 disables the bound.
// acceptedFormats restricts which detected formats get decoded; nil or
// empty accepts every supported format.
func NewDecoder(targetRate int, maxDuration float64, acceptedFormats []string) (*Decoder, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("target rate must be positive, got %d", targetRate)
	}

	if maxDuration < 0 {
		return nil, fmt.Errorf("max duration cannot be negative, got %f", maxDuration)
	}

	var accepted map[Format]bool
	if len(acceptedFormats) > 0 {
		accepted = make(map[Format]bool, len(acceptedFormats))
		for _, f := range acceptedFormats {
			accepted[Format(strings.ToLower(f))] = true
		}
	}

	return &Decoder{targetRate: targetRate, maxDuration: maxDuration, accepted: accepted}, nil
}

// DecodeFile decodes, mixes down and resamples the file at path. The
// returned signal always has SampleRate == targetRate when non-empty.
// Amplitude is intentionally not normalized: loudness stays available as
// a feature signal.
func (d *Decoder) DecodeFile(path string) (*Signal, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	if format != FormatUnknown && d.accepted != nil && !d.accepted[format] {
		return nil, &DecodeError{Format: format,
			Err: fmt.Errorf("format is not in the accepted formats list")}
	}

	var (
		interleaved []float64
		channels    int
		rate        int
	)

	switch format {
	case FormatWAV:
		interleaved, channels, rate, err = decodeWAV(path)
	case FormatMP3:
		interleaved, channels, rate, err = decodeMP3(path)
	case FormatFLAC:
		interleaved, channels, rate, err = decodeFLAC(path)
	case FormatOGG:
		interleaved, channels, rate, err = decodeOGG(path)
	case FormatM4A:
		err = fmt.Errorf("m4a/aac decoding is not supported")
	default:
		err = fmt.Errorf("unrecognized audio format")
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}

	if channels < 1 || rate <= 0 || len(interleaved) == 0 {
		return nil, &DecodeError{Format: format, Err: fmt.Errorf("no audio data found")}
	}

	mono := mixdown(interleaved, channels)

	if d.maxDuration > 0 {
		if duration := float64(len(mono)) / float64(rate); duration > d.maxDuration {
			return nil, &DecodeError{Format: format,
				Err: fmt.Errorf("clip is %.1fs long, limit is %.1fs", duration, d.maxDuration)}
		}
	}

	if rate != d.targetRate {
		mono = Resample(mono, rate, d.targetRate)
		rate = d.targetRate
	}

	return &Signal{Samples: mono, SampleRate: rate}, nil
}

// decodeWAV reads PCM samples from a WAV container, scaling integer
// samples by the source bit depth
func decodeWAV(path string) ([]float64, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("invalid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil && err != io.EOF {
		return nil, 0, 0, fmt.Errorf("failed to read PCM buffer: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, 0, fmt.Errorf("no audio data found")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}

	return samples, buf.Format.NumChannels, buf.Format.SampleRate, nil
}

// decodeMP3 reads an MPEG audio stream. go-mp3 always emits 16-bit
// little-endian stereo regardless of the source channel layout.
func decodeMP3(path string) ([]float64, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open MPEG stream: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read MPEG stream: %w", err)
	}

	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		v := int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
		samples[i] = float64(v) / 32768.0
	}

	return samples, 2, decoder.SampleRate(), nil
}

// decodeFLAC reads a FLAC stream frame by frame, interleaving the
// per-channel subframes
func decodeFLAC(path string) ([]float64, int, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to parse FLAC stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	rate := int(stream.Info.SampleRate)
	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var samples []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		if len(frame.Subframes) != channels {
			return nil, 0, 0, fmt.Errorf("frame has %d channels, stream declares %d",
				len(frame.Subframes), channels)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for _, sub := range frame.Subframes {
				samples = append(samples, float64(sub.Samples[i])/scale)
			}
		}
	}

	return samples, channels, rate, nil
}

// decodeOGG reads an OGG/Vorbis stream in chunks
func decodeOGG(path string) ([]float64, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to open Vorbis stream: %w", err)
	}

	var samples []float64
	buffer := make([]float32, 16384)
	for {
		n, err := reader.Read(buffer)
		for i := 0; i < n; i++ {
			samples = append(samples, float64(buffer[i]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read Vorbis stream: %w", err)
		}
	}

	return samples, reader.Channels(), reader.SampleRate(), nil
}
