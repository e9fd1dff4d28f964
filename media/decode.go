package media

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// Decode reads an audio file into memory. The format is chosen by file
// extension; WAV and MP3 are supported.
func Decode(path string) (*Track, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return DecodeWav(path)
	case ".mp3":
		return DecodeMp3(path)
	default:
		return nil, fmt.Errorf("media: unsupported audio format %q", filepath.Ext(path))
	}
}

// DecodeWav decodes a 16-bit PCM WAV file.
func DecodeWav(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("media: %s is not a valid WAV file", path)
	}
	if dec.WavAudioFormat != 1 || dec.BitDepth != 16 {
		return nil, fmt.Errorf("media: unsupported WAV format: only 16-bit PCM is supported (got %d-bit, format %d)",
			dec.BitDepth, dec.WavAudioFormat)
	}

	format := dec.Format()
	if format == nil || format.NumChannels == 0 {
		return nil, fmt.Errorf("media: could not read audio format from %s", path)
	}

	track := &Track{
		SampleRate: int(format.SampleRate),
		Channels:   int(format.NumChannels),
	}

	chunk := &audio.IntBuffer{
		Format: format,
		Data:   make([]int, 8192),
	}
	for {
		n, err := dec.PCMBuffer(chunk)
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("media: error reading PCM chunk: %w", err)
		}
		for _, v := range chunk.Data[:n] {
			track.Samples = append(track.Samples, int16(v))
		}
	}

	if len(track.Samples) == 0 {
		return nil, fmt.Errorf("media: %s contains no samples", path)
	}
	return track, nil
}

// DecodeMp3 decodes an MP3 file. go-mp3 always yields 16-bit little-endian
// stereo at the file's sample rate.
func DecodeMp3(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("media: failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("media: failed to decode %s: %w", path, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("media: error reading MP3 stream: %w", err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("media: %s contains no samples", path)
	}

	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
	}

	return &Track{
		SampleRate: dec.SampleRate(),
		Channels:   2,
		Samples:    samples,
	}, nil
}
