// Package timeline maps positions between the edited (contiguous,
// user-facing) timeline and the original (as-recorded) timeline over a flat
// segment list. The functions are pure and used for UI display and seek
// targets only; the realtime renderer computes sample positions itself.
package timeline

import (
	"github.com/playhead-io/playhead/edl"
)

// SegmentFor returns the index of the segment whose original-domain span
// contains the given original time, or -1. Segments with a degenerate
// original span are skipped.
func SegmentFor(segments []edl.FlatSegment, originalSec float64) int {
	pos := edl.SanitizeTime(originalSec, 0)
	for i, s := range segments {
		os := edl.SanitizeTime(s.OriginalStart, s.Start)
		oe := edl.SanitizeTime(s.OriginalEnd, s.End)
		span := edl.SanitizeDuration(oe - os)
		if span <= 0 {
			continue
		}
		if pos >= os && pos < os+span {
			return i
		}
	}
	return -1
}

// OriginalToEdited converts an original-domain time to edited-domain time:
// the edited duration accumulated over the segments preceding the containing
// one, plus a linear interpolation within it. Original spans are not ordered
// along the edited-sorted list once clips are reordered, so containment
// needs a full scan.
func OriginalToEdited(segments []edl.FlatSegment, originalSec float64) float64 {
	if len(segments) == 0 {
		return edl.SanitizeTime(originalSec, 0)
	}
	pos := edl.SanitizeTime(originalSec, 0)

	accEdited := 0.0
	for _, s := range segments {
		os := edl.SanitizeTime(s.OriginalStart, s.Start)
		oe := edl.SanitizeTime(s.OriginalEnd, s.End)
		odur := edl.SanitizeDuration(oe - os)
		edur := edl.SanitizeDuration(s.Dur)
		if odur <= 0 || edur <= 0 {
			continue
		}
		if pos >= os && pos < os+odur {
			r := clamp01((pos - os) / odur)
			return accEdited + r*edur
		}
		accEdited += edur
	}

	// pos lies in removed material: snap to the edited start of the segment
	// whose original span begins soonest after it, or to the edited end when
	// no kept span follows.
	bestStart := 0.0
	bestEdited := -1.0
	acc := 0.0
	for _, s := range segments {
		os := edl.SanitizeTime(s.OriginalStart, s.Start)
		oe := edl.SanitizeTime(s.OriginalEnd, s.End)
		odur := edl.SanitizeDuration(oe - os)
		edur := edl.SanitizeDuration(s.Dur)
		if odur <= 0 || edur <= 0 {
			continue
		}
		if os > pos && (bestEdited < 0 || os < bestStart) {
			bestStart = os
			bestEdited = acc
		}
		acc += edur
	}
	if bestEdited >= 0 {
		return bestEdited
	}
	return acc
}

// EditedToOriginal converts an edited-domain time to original-domain time,
// the inverse of OriginalToEdited up to per-segment linear interpolation.
// Beyond the last segment it clamps to that segment's original-domain end.
func EditedToOriginal(segments []edl.FlatSegment, editedSec float64) float64 {
	if len(segments) == 0 {
		return edl.SanitizeTime(editedSec, 0)
	}
	target := edl.SanitizeTime(editedSec, 0)
	accEdited := 0.0
	for _, s := range segments {
		os := edl.SanitizeTime(s.OriginalStart, s.Start)
		oe := edl.SanitizeTime(s.OriginalEnd, s.End)
		odur := edl.SanitizeDuration(oe - os)
		edur := edl.SanitizeDuration(s.Dur)
		if odur <= 0 || edur <= 0 {
			continue
		}
		// Strictly less than: a time at exactly a segment's edited end
		// belongs to the start of the next segment.
		if target < accEdited+edur {
			r := clamp01((target - accEdited) / edur)
			return os + r*odur
		}
		accEdited += edur
	}
	last := segments[len(segments)-1]
	return edl.SanitizeTime(last.OriginalEnd, last.End)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
