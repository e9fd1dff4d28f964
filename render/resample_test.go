package render

import (
	"math"
	"testing"

	"github.com/playhead-io/playhead/edl"
)

func newRampSource(frames int) *Source {
	s := NewSource()
	s.SetTrack(rampTrack(100, frames))
	s.UpdateSegments([]edl.FlatSegment{
		{Type: "word", Start: 0, End: float64(frames) / 100, Dur: float64(frames) / 100,
			OriginalStart: 0, OriginalEnd: float64(frames) / 100},
	}, false)
	return s
}

func TestResamplerUnityPassThrough(t *testing.T) {
	src := newRampSource(1000)
	r := NewResampler(src, 1, 64)

	out := make([]int16, 64)
	r.ReadBlock(out)
	for i := range out {
		if out[i] != int16(i) {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], i)
		}
	}
}

func TestResamplerDoubleSpeed(t *testing.T) {
	src := newRampSource(1000)
	r := NewResampler(src, 1, 64)
	r.SetRatio(2.0)

	out := make([]int16, 64)
	r.ReadBlock(out)

	// Double speed skips every other source frame.
	for i := 0; i < 64; i++ {
		if out[i] != int16(2*i) {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], 2*i)
		}
	}
	// 64 output frames consumed 128 source frames.
	if got := src.OriginalPos(); math.Abs(got-1.28) > 1e-6 {
		t.Errorf("OriginalPos = %v, want 1.28", got)
	}
}

func TestResamplerHalfSpeedConsumption(t *testing.T) {
	src := newRampSource(1000)
	r := NewResampler(src, 1, 64)
	r.SetRatio(0.5)

	out := make([]int16, 64)
	r.ReadBlock(out)

	// Half speed consumes half the source frames and never goes backwards.
	if got := src.OriginalPos(); math.Abs(got-0.32) > 1e-6 {
		t.Errorf("OriginalPos = %v, want 0.32", got)
	}
	for i := 1; i < 64; i++ {
		if out[i] < out[i-1] {
			t.Fatalf("output not monotonic at %d: %d < %d", i, out[i], out[i-1])
		}
	}
}

func TestResamplerFractionCarriesAcrossBlocks(t *testing.T) {
	src := newRampSource(2000)
	r := NewResampler(src, 1, 10)
	r.SetRatio(1.5)

	out := make([]int16, 10)
	for i := 0; i < 4; i++ {
		r.ReadBlock(out)
	}
	// 40 output frames at 1.5x should consume exactly 60 source frames.
	if got := src.OriginalPos(); math.Abs(got-0.6) > 1e-6 {
		t.Errorf("OriginalPos = %v, want 0.6", got)
	}
}

func TestResamplerClampsRatio(t *testing.T) {
	r := NewResampler(newRampSource(100), 1, 64)

	r.SetRatio(100)
	if r.Ratio() != MaxRatio {
		t.Errorf("Ratio = %v, want %v", r.Ratio(), MaxRatio)
	}
	r.SetRatio(-1)
	if r.Ratio() != 1.0 {
		t.Errorf("Ratio = %v, want 1.0", r.Ratio())
	}
}
