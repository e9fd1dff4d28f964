// Package media decodes audio files into in-memory PCM tracks with random
// sample access, the representation the realtime renderer addresses by
// original-file position.
package media

// Track is a fully decoded recording: interleaved signed 16-bit PCM.
type Track struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames returns the number of sample frames in the track.
func (t *Track) Frames() int64 {
	if t.Channels == 0 {
		return 0
	}
	return int64(len(t.Samples) / t.Channels)
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(t.Frames()) / float64(t.SampleRate)
}

// ReadAt copies interleaved samples starting at the given frame into dst and
// returns the number of frames copied. Out-of-range reads return 0; dst is
// not cleared. Safe for the realtime path: no allocation, no locking.
func (t *Track) ReadAt(frame int64, dst []int16) int {
	if t.Channels == 0 || frame < 0 || frame >= t.Frames() {
		return 0
	}
	offset := frame * int64(t.Channels)
	n := copy(dst, t.Samples[offset:])
	return n / t.Channels
}
