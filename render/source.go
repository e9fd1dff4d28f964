// Package render implements the realtime block renderer: a pull-based audio
// source that walks the flat segment list and reads track samples at the
// correct original-time offset. Everything on the block path is
// allocation-free and must complete within the audio block deadline; callers
// serialize access with the playback controller's mutex.
package render

import (
	"github.com/playhead-io/playhead/edl"
	"github.com/playhead-io/playhead/media"
)

// Duration-ratio clamp keeps time-stretched or gap-compressed segments from
// advancing the edited playhead at runaway speed.
const (
	minDurationRatio = 0.01
	maxDurationRatio = 100.0

	// segmentEndTolerance is how close (seconds) the edited playhead must
	// get to a segment's edited end before advancing to the next segment.
	segmentEndTolerance = 0.001

	durationEpsilon = 1e-9
)

// Source renders EDL playback block by block. The segment list is replaced
// wholesale on every EDL update, never mutated in place.
type Source struct {
	track      *media.Track
	segments   []edl.FlatSegment
	contiguous bool

	segIdx    int
	editedPos float64
	origFrame int64
}

// NewSource returns an empty renderer; it produces silence until a track and
// segments are attached.
func NewSource() *Source {
	return &Source{}
}

// SetTrack attaches the decoded recording and resets the playhead.
func (s *Source) SetTrack(t *media.Track) {
	s.track = t
	s.segIdx = 0
	s.editedPos = 0
	s.origFrame = 0
}

// UpdateSegments swaps in a new flat segment list and resets segment
// bookkeeping.
func (s *Source) UpdateSegments(segments []edl.FlatSegment, contiguous bool) {
	s.segments = segments
	s.contiguous = contiguous
	s.segIdx = 0
	s.editedPos = 0
}

// EditedPos returns the edited-domain playhead in seconds.
func (s *Source) EditedPos() float64 {
	return s.editedPos
}

// OriginalPos returns the transport position: the original-domain time of the
// most recent sample read from the track.
func (s *Source) OriginalPos() float64 {
	if s.track == nil || s.track.SampleRate <= 0 {
		return 0
	}
	return float64(s.origFrame) / float64(s.track.SampleRate)
}

// Exhausted reports whether the playhead has moved past the final segment.
func (s *Source) Exhausted() bool {
	return len(s.segments) == 0 || s.segIdx >= len(s.segments)
}

// ReadBlock fills out (interleaved frames) with the next block of playback.
// Unfilled remainder is silence. Per block it resolves the active segment's
// original-domain sample range, maps the playhead's fractional progress into
// it, reads at most the samples remaining before the segment's original end,
// and advances the edited playhead by the read duration scaled by the
// segment's edited/original duration ratio.
func (s *Source) ReadBlock(out []int16) {
	for i := range out {
		out[i] = 0
	}

	if s.track == nil || len(s.segments) == 0 {
		return
	}
	sr := float64(s.track.SampleRate)
	if sr <= 1.0 {
		return
	}
	ch := s.track.Channels
	if ch <= 0 {
		return
	}

	framesNeeded := len(out) / ch
	framesWritten := 0

	for framesNeeded > 0 && s.segIdx < len(s.segments) {
		seg := s.segments[s.segIdx]

		// Contiguous mode addresses reordered material by its original
		// range; standard mode reads the edited range directly, since an
		// in-order timeline leaves edited and original positions equal.
		var readStart, readEnd float64
		if s.contiguous {
			readStart, readEnd = seg.OriginalStart, seg.OriginalEnd
		} else {
			readStart, readEnd = seg.Start, seg.End
		}
		startFrame := int64(readStart * sr)
		endFrame := int64(readEnd * sr)

		relEdited := s.editedPos - seg.Start
		if relEdited < 0 {
			relEdited = 0
		}
		relProgress := 0.0
		if seg.End > seg.Start {
			relProgress = relEdited / (seg.End - seg.Start)
		}
		curFrame := startFrame + int64(relProgress*float64(endFrame-startFrame))

		framesLeft := endFrame - curFrame
		n := framesNeeded
		if int64(n) > framesLeft {
			n = int(framesLeft)
		}

		if n > 0 {
			read := s.track.ReadAt(curFrame, out[framesWritten*ch:(framesWritten+n)*ch])
			if read > 0 {
				framesWritten += read
				framesNeeded -= read
				s.origFrame = curFrame + int64(read)

				origAdvanced := float64(read) / sr
				editedDur := seg.End - seg.Start
				origDur := seg.OriginalDur()
				if origDur > durationEpsilon && editedDur > durationEpsilon {
					ratio := editedDur / origDur
					if ratio < minDurationRatio {
						ratio = minDurationRatio
					} else if ratio > maxDurationRatio {
						ratio = maxDurationRatio
					}
					s.editedPos += origAdvanced * ratio
				} else {
					s.editedPos += origAdvanced
				}
			} else {
				n = 0
			}
		}

		if s.editedPos >= seg.End-segmentEndTolerance {
			s.segIdx++
			if s.segIdx < len(s.segments) {
				s.editedPos = s.segments[s.segIdx].Start
			}
		}

		if n <= 0 {
			break
		}
	}
}

// SeekEdited moves the playhead to an edited-domain time. Seeks are resolved
// against segment edited spans, never by indexing the file directly: a time
// at exactly a segment's end lands on the start of the next segment, a time
// in a gap snaps forward, and a time past the final segment exhausts the
// source.
func (s *Source) SeekEdited(sec float64) {
	s.editedPos = edl.SanitizeTime(sec, 0)
	s.segIdx = len(s.segments)

	for i, seg := range s.segments {
		if s.editedPos >= seg.Start && s.editedPos < seg.End {
			s.segIdx = i
			break
		}
		if s.editedPos < seg.Start {
			s.segIdx = i
			s.editedPos = seg.Start
			break
		}
	}

	s.syncOriginalFromEdited()
}

// SeekFrame converts an absolute edited-domain sample position to time and
// seeks to it.
func (s *Source) SeekFrame(frame int64) {
	if s.track == nil || s.track.SampleRate <= 0 {
		return
	}
	s.SeekEdited(float64(frame) / float64(s.track.SampleRate))
}

// JumpOriginal relocates the transport to an original-domain time, used by
// the controller for segment-boundary jumps. The edited playhead follows by
// interpolating within the containing segment's edited span.
func (s *Source) JumpOriginal(originalSec float64) {
	pos := edl.SanitizeTime(originalSec, 0)
	if s.track != nil && s.track.SampleRate > 0 {
		s.origFrame = int64(pos * float64(s.track.SampleRate))
	}
	for i, seg := range s.segments {
		odur := seg.OriginalDur()
		if odur <= 0 {
			continue
		}
		if pos >= seg.OriginalStart && pos < seg.OriginalEnd {
			r := (pos - seg.OriginalStart) / odur
			s.segIdx = i
			s.editedPos = seg.Start + r*seg.Dur
			return
		}
	}
}

func (s *Source) syncOriginalFromEdited() {
	if s.track == nil || s.track.SampleRate <= 0 {
		return
	}
	sr := float64(s.track.SampleRate)
	switch {
	case len(s.segments) == 0:
		s.origFrame = int64(s.editedPos * sr)
	case s.segIdx >= len(s.segments):
		last := s.segments[len(s.segments)-1]
		s.origFrame = int64(last.OriginalEnd * sr)
	default:
		seg := s.segments[s.segIdx]
		r := 0.0
		if seg.Dur > durationEpsilon {
			r = (s.editedPos - seg.Start) / seg.Dur
			if r < 0 {
				r = 0
			} else if r > 1 {
				r = 1
			}
		}
		s.origFrame = int64((seg.OriginalStart + r*seg.OriginalDur()) * sr)
	}
}
