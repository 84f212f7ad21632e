package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Format identifies a supported audio container/codec
type Format string

const (
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
	FormatOGG     Format = "ogg"
	FormatM4A     Format = "m4a"
	FormatUnknown Format = ""
)

// Magic byte patterns for the containers we recognize
var (
	riffMagic = []byte("RIFF")
	waveMagic = []byte("WAVE")
	flacMagic = []byte("fLaC")
	oggMagic  = []byte("OggS")
	id3Magic  = []byte("ID3")
	ftypMagic = []byte("ftyp")
)

// sniffMagic inspects the first bytes of the file and returns the format
// they unambiguously identify, or FormatUnknown. Content wins over a lying
// extension, so this runs before the extension fallback.
func sniffMagic(header []byte) Format {
	if len(header) < 12 {
		return FormatUnknown
	}

	switch {
	case bytes.Equal(header[0:4], riffMagic) && bytes.Equal(header[8:12], waveMagic):
		return FormatWAV
	case bytes.Equal(header[0:4], flacMagic):
		return FormatFLAC
	case bytes.Equal(header[0:4], oggMagic):
		return FormatOGG
	case bytes.Equal(header[0:3], id3Magic):
		return FormatMP3
	case bytes.Equal(header[4:8], ftypMagic):
		return FormatM4A
	case header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// Bare MPEG audio frame sync without an ID3 tag
		return FormatMP3
	}

	return FormatUnknown
}

// detectFormat determines the audio format of the stored file. Order:
// magic bytes, then the declared extension, then the tag library's
// identifier for containers whose magic we do not parse ourselves.
func detectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, _ := f.Read(header)
	if format := sniffMagic(header[:n]); format != FormatUnknown {
		return format, nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "wav", "mp3", "flac", "ogg", "m4a":
		return Format(ext), nil
	}

	if _, err := f.Seek(0, 0); err == nil {
		if _, fileType, idErr := tag.Identify(f); idErr == nil {
			switch fileType {
			case tag.MP3:
				return FormatMP3, nil
			case tag.FLAC:
				return FormatFLAC, nil
			case tag.OGG:
				return FormatOGG, nil
			case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
				return FormatM4A, nil
			}
		}
	}

	return FormatUnknown, nil
}
