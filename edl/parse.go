package edl

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoClips is returned when a payload has no top-level clips array.
var ErrNoClips = errors.New("edl: payload has no clips array")

// Wire shapes. Numeric fields are pointers so a missing key is
// distinguishable from zero; segment times are clip-relative.
type rawPayload struct {
	Clips    []json.RawMessage `json:"clips"`
	Revision *int              `json:"revision"`
}

type rawClip struct {
	ID               string            `json:"id"`
	StartSec         *float64          `json:"startSec"`
	EndSec           *float64          `json:"endSec"`
	OriginalStartSec *float64          `json:"originalStartSec"`
	OriginalEndSec   *float64          `json:"originalEndSec"`
	Speaker          string            `json:"speaker"`
	Type             string            `json:"type"`
	Segments         []json.RawMessage `json:"segments"`
}

type rawSegment struct {
	Type             string   `json:"type"`
	StartSec         *float64 `json:"startSec"`
	EndSec           *float64 `json:"endSec"`
	Text             string   `json:"text"`
	OriginalStartSec *float64 `json:"originalStartSec"`
	OriginalEndSec   *float64 `json:"originalEndSec"`
}

// Parse decodes an EDL payload into sanitized clips and the revision number.
// Parsing fails only when the payload is not JSON or lacks a clips array;
// individual malformed clips and segments are dropped, since partial EDLs
// occur routinely during incremental edits.
func Parse(payload []byte) ([]Clip, int, error) {
	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, 0, fmt.Errorf("edl: malformed payload: %w", err)
	}
	if raw.Clips == nil {
		return nil, 0, ErrNoClips
	}

	revision := 0
	if raw.Revision != nil {
		revision = *raw.Revision
	}

	clips := make([]Clip, 0, len(raw.Clips))
	for _, item := range raw.Clips {
		var rc rawClip
		if err := json.Unmarshal(item, &rc); err != nil {
			continue
		}
		clip, ok := sanitizeClip(rc)
		if !ok {
			continue
		}
		clips = append(clips, clip)
	}

	return clips, revision, nil
}

func sanitizeClip(rc rawClip) (Clip, bool) {
	clip := Clip{
		ID:               rc.ID,
		Speaker:          rc.Speaker,
		Type:             rc.Type,
		OriginalStartSec: -1,
		OriginalEndSec:   -1,
	}

	clip.StartSec = SanitizeTime(deref(rc.StartSec), 0)
	clip.EndSec = SanitizeTime(derefOr(rc.EndSec, clip.StartSec), clip.StartSec)
	if SanitizeDuration(clip.EndSec-clip.StartSec) <= 0 {
		return Clip{}, false
	}

	if rc.OriginalStartSec != nil && rc.OriginalEndSec != nil {
		os := SanitizeTime(*rc.OriginalStartSec, clip.StartSec)
		oe := SanitizeTime(*rc.OriginalEndSec, os)
		if SanitizeDuration(oe-os) > 0 {
			clip.OriginalStartSec = os
			clip.OriginalEndSec = oe
		}
	}

	for _, item := range rc.Segments {
		var rs rawSegment
		if err := json.Unmarshal(item, &rs); err != nil {
			continue
		}
		seg, ok := sanitizeSegment(rs)
		if !ok {
			continue
		}
		clip.Segments = append(clip.Segments, seg)
	}

	// Clips reduced to zero segments are dropped wholesale.
	if len(clip.Segments) == 0 {
		return Clip{}, false
	}
	return clip, true
}

func sanitizeSegment(rs rawSegment) (Segment, bool) {
	if rs.StartSec == nil || rs.EndSec == nil {
		return Segment{}, false
	}

	start := SanitizeTime(*rs.StartSec, 0)
	end := SanitizeTime(*rs.EndSec, start)
	dur := SanitizeDuration(end - start)
	if dur <= 0 {
		return Segment{}, false
	}

	seg := Segment{
		Type:          rs.Type,
		Start:         start,
		End:           start + dur,
		Dur:           dur,
		Text:          rs.Text,
		OriginalStart: -1,
		OriginalEnd:   -1,
	}

	if rs.OriginalStartSec != nil && rs.OriginalEndSec != nil {
		os := SanitizeTime(*rs.OriginalStartSec, 0)
		oe := SanitizeTime(*rs.OriginalEndSec, os)
		if SanitizeDuration(oe-os) > 0 {
			seg.OriginalStart = os
			seg.OriginalEnd = oe
		}
	}

	return seg, true
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
