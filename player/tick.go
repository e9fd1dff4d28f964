package player

import (
	"context"
	"time"

	"github.com/playhead-io/playhead/edl"
	"github.com/playhead-io/playhead/timeline"
)

const (
	// TickInterval is the position-sync period (~30 Hz).
	TickInterval = 33 * time.Millisecond

	// Boundary tolerances: standard mode jumps at the segment's original
	// end, contiguous mode jumps slightly early to mask the relocation.
	standardEndTolerance  = 1e-6
	contiguousJumpEarlySec = 0.05

	// maxBoundaryLoops bounds boundary resolution against inconsistent
	// segment metadata.
	maxBoundaryLoops = 10
)

// Run drives the periodic tick until the context is canceled.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Close()
			return nil
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick reconciles the transport's original-file position with the edited
// timeline: it derives the edited time, performs segment-boundary jumps, and
// emits position and ended events. Exported so tests can drive time
// directly.
func (p *Player) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return
	}
	if p.contiguous {
		p.tickContiguous()
	} else {
		p.tickStandard()
	}
}

// tickStandard resolves which segment contains the current original position
// and jumps across boundaries as the transport leaves a segment's bounds.
func (p *Player) tickStandard() {
	pos := edl.SanitizeTime(p.source.OriginalPos(), 0)

	if len(p.segments) > 0 {
		for loop := 0; ; loop++ {
			if loop >= maxBoundaryLoops {
				p.log.Warn("boundary resolution loop cap reached; ending playback", "originalSec", pos)
				p.endPlayback()
				return
			}

			idx := timeline.SegmentFor(p.segments, pos)
			if idx < 0 {
				if pos < p.segments[0].OriginalStart {
					pos = p.jumpTo(p.segments[0].OriginalStart)
					continue
				}
				jumped := false
				for _, seg := range p.segments {
					if pos < seg.OriginalStart {
						pos = p.jumpTo(seg.OriginalStart)
						jumped = true
						break
					}
				}
				if !jumped {
					p.endPlayback()
					return
				}
				continue
			}

			seg := p.segments[idx]
			if pos >= seg.OriginalEnd-standardEndTolerance {
				if idx+1 < len(p.segments) {
					pos = p.jumpTo(p.segments[idx+1].OriginalStart)
					continue
				}
				p.endPlayback()
				return
			}
			break
		}
	} else if pos >= p.durationSec {
		p.endPlayback()
		return
	}

	p.editedSec = timeline.OriginalToEdited(p.segments, pos)
	p.emitPosition()
}

// tickContiguous locates the active segment by original position,
// interpolates the edited position, and jumps at the tolerance boundary. On
// activation it first seeks the transport to the original offset matching the
// current edited playhead, respecting a just-prior user seek.
func (p *Player) tickContiguous() {
	if len(p.segments) == 0 {
		p.endPlayback()
		return
	}

	if !p.contiguousInit && p.segments[0].OriginalDur() > 0 {
		target := edl.SanitizeTime(timeline.EditedToOriginal(p.segments, p.editedSec), 0)
		p.source.JumpOriginal(target)
		p.contiguousInit = true
		p.log.Debug("contiguous transport initialized", "editedSec", p.editedSec, "originalSec", target)
		p.emitPosition()
		// The pre-seek position is stale; act on the new one next tick.
		return
	}

	pos := edl.SanitizeTime(p.source.OriginalPos(), 0)

	idx := -1
	for i, seg := range p.segments {
		odur := edl.SanitizeDuration(seg.OriginalDur())
		if odur <= 0 {
			continue
		}
		if pos >= seg.OriginalStart && pos < seg.OriginalStart+odur {
			idx = i
			break
		}
	}

	if idx >= 0 {
		seg := p.segments[idx]
		odur := edl.SanitizeDuration(seg.OriginalDur())
		edur := edl.SanitizeDuration(seg.Dur)
		if odur <= 0 || edur <= 0 {
			p.endPlayback()
			return
		}

		rel := (pos - seg.OriginalStart) / odur
		if rel < 0 {
			rel = 0
		} else if rel > 1 {
			rel = 1
		}
		p.editedSec = seg.Start + rel*edur

		if pos >= seg.OriginalEnd-contiguousJumpEarlySec {
			if idx+1 < len(p.segments) && p.segments[idx+1].OriginalDur() > 0 {
				next := p.segments[idx+1].OriginalStart
				p.source.JumpOriginal(next)
				p.log.Debug("contiguous boundary jump", "segment", idx+1, "originalSec", next)
			} else {
				p.endPlayback()
				return
			}
		}
	} else {
		found := false
		for i, seg := range p.segments {
			if edl.SanitizeDuration(seg.OriginalDur()) <= 0 {
				continue
			}
			if pos < seg.OriginalStart {
				p.source.JumpOriginal(seg.OriginalStart)
				p.editedSec = seg.Start
				p.log.Debug("contiguous jump to next segment", "segment", i, "originalSec", seg.OriginalStart)
				found = true
				break
			}
		}
		if !found {
			p.endPlayback()
			return
		}
	}

	p.emitPosition()
}

func (p *Player) jumpTo(originalSec float64) float64 {
	p.source.JumpOriginal(originalSec)
	p.log.Debug("standard boundary jump", "originalSec", originalSec)
	return originalSec
}
