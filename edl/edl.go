// Package edl models Edit Decision Lists: ordered descriptions of which
// source-audio ranges play in which order on the edited timeline.
package edl

// Segment is the smallest playback unit inside a clip, either a spoken word
// or a spacer (gap). Times are clip-relative seconds on the edited timeline.
// Original times are absolute positions in the recorded file and are -1 when
// no mapping was supplied.
type Segment struct {
	Type          string
	Start         float64
	End           float64
	Dur           float64
	Text          string
	OriginalStart float64
	OriginalEnd   float64
}

// HasOriginal reports whether the segment carries an explicit original-time
// range.
func (s Segment) HasOriginal() bool {
	return s.OriginalStart >= 0 && s.OriginalEnd >= 0
}

// Clip groups consecutive segments spoken by one speaker. StartSec/EndSec are
// absolute edited-timeline seconds; the original range, when present, locates
// the clip in the recorded file.
type Clip struct {
	ID               string
	StartSec         float64
	EndSec           float64
	OriginalStartSec float64
	OriginalEndSec   float64
	Speaker          string
	Type             string
	Segments         []Segment
}

// Duration returns the clip's edited-timeline duration.
func (c Clip) Duration() float64 {
	return c.EndSec - c.StartSec
}

// HasOriginal reports whether the clip carries an explicit original-time range.
func (c Clip) HasOriginal() bool {
	return c.OriginalStartSec >= 0 && c.OriginalEndSec >= 0
}

// FlatSegment is a segment with clip-relative offsets resolved to absolute
// edited-timeline coordinates. The original range is always resolved: when
// neither the segment nor its clip supplied a mapping it equals the edited
// range (untouched audio).
type FlatSegment struct {
	Type          string
	Text          string
	Start         float64
	End           float64
	Dur           float64
	OriginalStart float64
	OriginalEnd   float64
}

// OriginalDur returns the length of the segment's original-domain span.
func (s FlatSegment) OriginalDur() float64 {
	return s.OriginalEnd - s.OriginalStart
}

// Stats summarizes an accepted EDL for the edlApplied event.
type Stats struct {
	Words   int
	Spacers int
	Total   int
}

// Count tallies word and spacer segments across clips.
func Count(clips []Clip) Stats {
	var st Stats
	for _, c := range clips {
		st.Total += len(c.Segments)
		for _, s := range c.Segments {
			if s.Type == "spacer" {
				st.Spacers++
			} else {
				st.Words++
			}
		}
	}
	return st
}
