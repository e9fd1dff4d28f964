package edl

import "sort"

// Contiguity tolerances: clip boundaries within contiguousGapTolerance of
// each other count as back-to-back; at least contiguousMinMatches of the
// first contiguousProbeClips boundaries must match.
const (
	contiguousGapTolerance = 0.01
	contiguousMinMatches   = 2
	contiguousProbeClips   = 5
)

// Flatten resolves clip-relative segment offsets into one absolute,
// time-sorted segment list. Every flat segment carries a resolved
// original-time range: the segment's own mapping when present, a linear
// interpolation into the parent clip's original span otherwise, or the
// segment's edited range when neither exists.
func Flatten(clips []Clip) []FlatSegment {
	var flat []FlatSegment
	for _, clip := range clips {
		clipStart := SanitizeTime(clip.StartSec, 0)
		clipEnd := SanitizeTime(clip.EndSec, clipStart)
		clipDur := SanitizeDuration(clipEnd - clipStart)
		if clipDur <= 0 {
			continue
		}

		clipHasOriginal := clip.HasOriginal()
		var clipOrigStart, clipOrigDur float64
		if clipHasOriginal {
			clipOrigStart = SanitizeTime(clip.OriginalStartSec, clipStart)
			clipOrigEnd := SanitizeTime(clip.OriginalEndSec, clipOrigStart)
			clipOrigDur = SanitizeDuration(clipOrigEnd - clipOrigStart)
		}

		for _, seg := range clip.Segments {
			segDur := SanitizeDuration(seg.Dur)
			if segDur <= 0 {
				continue
			}

			start := SanitizeTime(clipStart+seg.Start, clipStart)
			end := start + segDur
			dur := SanitizeDuration(end - start)
			if dur <= 0 {
				continue
			}

			fs := FlatSegment{
				Type:  seg.Type,
				Text:  seg.Text,
				Start: start,
				End:   start + dur,
				Dur:   dur,
			}

			switch {
			case seg.HasOriginal():
				os := SanitizeTime(seg.OriginalStart, start)
				oe := SanitizeTime(seg.OriginalEnd, os)
				if SanitizeDuration(oe-os) > 0 {
					fs.OriginalStart = os
					fs.OriginalEnd = os + SanitizeDuration(oe-os)
				} else {
					fs.OriginalStart = start
					fs.OriginalEnd = end
				}
			case clipHasOriginal && clipOrigDur > 0:
				ratio := seg.Start / clipDur
				if ratio < 0 {
					ratio = 0
				} else if ratio > 1 {
					ratio = 1
				}
				mapped := SanitizeTime(clipOrigStart+ratio*clipOrigDur, clipOrigStart)
				fs.OriginalStart = mapped
				fs.OriginalEnd = SanitizeTime(mapped+dur, mapped+dur)
			default:
				fs.OriginalStart = start
				fs.OriginalEnd = end
			}

			if SanitizeDuration(fs.OriginalEnd-fs.OriginalStart) <= 0 {
				fs.OriginalStart = start
				fs.OriginalEnd = end
			}

			flat = append(flat, fs)
		}
	}

	sort.Slice(flat, func(i, j int) bool {
		if flat[i].Start == flat[j].Start {
			return flat[i].End < flat[j].End
		}
		return flat[i].Start < flat[j].Start
	})

	return flat
}

// DetectContiguous reports whether the clips form a contiguous edited
// timeline: consecutive clips whose edited ranges are back-to-back indicate
// relocated/reordered material rather than original-order playback.
func DetectContiguous(clips []Clip) bool {
	if len(clips) < 2 {
		return false
	}
	matches := 0
	for i := 1; i < len(clips) && i < contiguousProbeClips; i++ {
		gap := clips[i].StartSec - clips[i-1].EndSec
		if gap < 0 {
			gap = -gap
		}
		if gap < contiguousGapTolerance {
			matches++
		}
	}
	return matches >= contiguousMinMatches
}

// FullFile builds the degraded-fallback segment list: one speech segment
// spanning the whole recording, original range equal to the edited range.
func FullFile(durationSec float64) []FlatSegment {
	d := SanitizeTime(durationSec, 0)
	if d <= 0 {
		return nil
	}
	return []FlatSegment{{
		Type:          "speech",
		Start:         0,
		End:           d,
		Dur:           d,
		OriginalStart: 0,
		OriginalEnd:   d,
	}}
}
