package render

// Resampler sits between the EDL source and the device and applies the
// playback rate by linear interpolation. At ratio 1.0 it is a pass-through.
// The scratch buffer is sized up front for the maximum rate so the block
// path never allocates.
type Resampler struct {
	src     *Source
	ratio   float64
	scratch []int16

	channels  int
	maxFrames int
	frac      float64
}

// MaxRatio is the highest playback rate the resampler provisions for.
const MaxRatio = 4.0

// NewResampler wraps src for blocks of at most framesPerBuffer frames of the
// given channel count.
func NewResampler(src *Source, channels, framesPerBuffer int) *Resampler {
	if channels < 1 {
		channels = 1
	}
	if framesPerBuffer < 1 {
		framesPerBuffer = 1
	}
	return &Resampler{
		src:       src,
		ratio:     1.0,
		channels:  channels,
		maxFrames: framesPerBuffer,
		scratch:   make([]int16, (int(float64(framesPerBuffer)*MaxRatio)+2)*channels),
	}
}

// SetRatio sets the resampling ratio (playback rate). Values are clamped to
// what the scratch buffer can absorb.
func (r *Resampler) SetRatio(ratio float64) {
	if ratio <= 0 {
		ratio = 1.0
	}
	if ratio > MaxRatio {
		ratio = MaxRatio
	}
	r.ratio = ratio
	r.frac = 0
}

// Ratio returns the current resampling ratio.
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// ReadBlock fills out with rate-adjusted playback.
func (r *Resampler) ReadBlock(out []int16) {
	const unity = 1e-9
	if r.ratio > 1.0-unity && r.ratio < 1.0+unity {
		r.src.ReadBlock(out)
		return
	}

	ch := r.channels
	frames := len(out) / ch
	if frames > r.maxFrames {
		frames = r.maxFrames
	}
	if frames == 0 {
		return
	}

	// Carry the fractional source frame across blocks so the long-term
	// consumption rate matches the ratio exactly.
	exact := float64(frames)*r.ratio + r.frac
	srcFrames := int(exact)
	r.frac = exact - float64(srcFrames)
	if srcFrames < 1 {
		srcFrames = 1
	}

	need := srcFrames * ch
	if need > len(r.scratch) {
		need = len(r.scratch)
		srcFrames = need / ch
	}
	r.src.ReadBlock(r.scratch[:need])

	step := float64(srcFrames) / float64(frames)
	for i := 0; i < frames; i++ {
		pos := float64(i) * step
		i0 := int(pos)
		if i0 >= srcFrames-1 {
			i0 = srcFrames - 1
		}
		i1 := i0 + 1
		if i1 >= srcFrames {
			i1 = srcFrames - 1
		}
		t := pos - float64(i0)
		for c := 0; c < ch; c++ {
			a := float64(r.scratch[i0*ch+c])
			b := float64(r.scratch[i1*ch+c])
			out[i*ch+c] = int16(a + (b-a)*t)
		}
	}
	for i := frames * ch; i < len(out); i++ {
		out[i] = 0
	}
}
