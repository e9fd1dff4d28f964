// Package player owns the output device, the decoded track, and the playback
// state machine, and reconciles the transport's original-file position with
// the UI-facing edited timeline on a periodic tick.
package player

import (
	"math"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/playhead-io/playhead/edl"
	"github.com/playhead-io/playhead/media"
	"github.com/playhead-io/playhead/render"
	"github.com/playhead-io/playhead/timeline"
)

const (
	// DefaultFramesPerBuffer is the block size requested from the device.
	DefaultFramesPerBuffer = 1024

	minRate = 0.25
	maxRate = 4.0
	minGain = 0.0
	maxGain = 2.0
)

// Player is the playback controller. One mutex serializes the realtime pull
// callback, command handlers, and the tick loop against the shared EDL and
// segment state. The pull path only tries the lock and renders silence when
// it is contended: stream teardown joins the in-flight callback, so the
// callback must never wait on a mutex a command handler may hold.
type Player struct {
	mu     sync.Mutex
	log    hclog.Logger
	sink   Sink
	device Device

	framesPerBuffer int
	deviceOpen      bool

	id          string
	playing     bool
	editedSec   float64
	durationSec float64
	sampleRate  int
	channels    int

	track     *media.Track
	source    *render.Source
	resampler *render.Resampler
	rate      float64
	gain      float64

	clips          []edl.Clip
	segments       []edl.FlatSegment
	contiguous     bool
	contiguousInit bool
	revision       int
	stats          edl.Stats
}

// New creates a playback controller. The device is opened lazily on the
// first successful Load, once the source format is known.
func New(device Device, sink Sink, log hclog.Logger, framesPerBuffer int) *Player {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}
	return &Player{
		log:             log,
		sink:            sink,
		device:          device,
		framesPerBuffer: framesPerBuffer,
		source:          render.NewSource(),
		rate:            1.0,
		gain:            1.0,
	}
}

// Load decodes an audio file and resets playback to a single full-file
// segment.
func (p *Player) Load(id, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.id = id
	p.log.Debug("load requested", "id", id, "path", path)

	if _, err := os.Stat(path); err != nil {
		p.log.Warn("load failed: file does not exist", "path", path, "error", err)
		p.sink.Emit(ErrorEvent{Type: "error", Message: "Audio file not found"})
		return
	}

	track, err := media.Decode(path)
	if err != nil {
		p.log.Warn("load failed: could not decode file", "path", path, "error", err)
		p.sink.Emit(ErrorEvent{Type: "error", Message: "Failed to open audio file"})
		return
	}

	if err := p.reopenDevice(track.SampleRate, track.Channels); err != nil {
		p.log.Error("load failed: could not open audio device", "error", err)
		p.sink.Emit(ErrorEvent{Type: "error", Message: "Failed to open audio device"})
		return
	}

	p.track = track
	p.sampleRate = track.SampleRate
	p.channels = track.Channels
	p.durationSec = edl.SanitizeTime(track.Duration(), 0)

	p.source.SetTrack(track)
	p.resampler = render.NewResampler(p.source, track.Channels, p.framesPerBuffer)
	p.rate = 1.0

	p.clips = nil
	p.segments = edl.FullFile(p.durationSec)
	p.contiguous = false
	p.contiguousInit = false
	p.source.UpdateSegments(p.segments, false)

	p.editedSec = 0
	p.playing = false

	p.log.Info("source loaded",
		"id", id,
		"durationSec", p.durationSec,
		"sampleRate", p.sampleRate,
		"channels", p.channels,
	)

	p.sink.Emit(Loaded{
		Type:        "loaded",
		ID:          p.id,
		DurationSec: p.durationSec,
		SampleRate:  p.sampleRate,
		Channels:    p.channels,
	})
	p.emitState()
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		p.sink.Emit(ErrorEvent{Type: "error", Message: "No audio loaded"})
		return
	}

	p.playing = true
	p.emitState()
	p.log.Debug("playback started",
		"mode", p.mode(),
		"revision", p.revision,
		"words", p.stats.Words,
		"spacers", p.stats.Spacers,
	)
}

// Pause suspends playback, keeping the playhead.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		p.sink.Emit(ErrorEvent{Type: "error", Message: "No audio loaded"})
		return
	}

	p.playing = false
	p.emitState()
}

// Stop halts playback and resets the edited position to zero.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		p.sink.Emit(ErrorEvent{Type: "error", Message: "No audio loaded"})
		return
	}

	p.playing = false
	p.source.SeekEdited(0)
	p.editedSec = 0
	p.emitState()
	p.emitPosition()
}

// Seek moves the playhead to an edited-domain time.
func (p *Player) Seek(timeSec float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.track == nil {
		p.sink.Emit(ErrorEvent{Type: "error", Message: "No audio loaded"})
		return
	}

	p.editedSec = edl.SanitizeTime(timeSec, 0)
	p.source.SeekEdited(p.editedSec)
	p.log.Debug("seek", "editedSec", p.editedSec, "originalSec", p.source.OriginalPos())
	p.emitPosition()
}

// SetRate sets the playback rate, clamped to [0.25, 4.0].
func (p *Player) SetRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		rate = 1.0
	}
	if rate < minRate {
		rate = minRate
	} else if rate > maxRate {
		rate = maxRate
	}
	p.rate = rate
	if p.resampler != nil {
		p.resampler.SetRatio(rate)
	}
}

// SetVolume sets the output gain, clamped to [0.0, 2.0].
func (p *Player) SetVolume(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 1.0
	}
	if value < minGain {
		value = minGain
	} else if value > maxGain {
		value = maxGain
	}
	p.gain = value
}

// QueryState reports the current state and position.
func (p *Player) QueryState() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.emitState()
	p.emitPosition()
}

// ApplyEDL swaps in a new edit list. The previous list is replaced
// wholesale; nothing is mutated in place.
func (p *Player) ApplyEDL(clips []edl.Clip, revision int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clips = clips
	p.revision = revision
	p.stats = edl.Count(clips)

	p.contiguous = edl.DetectContiguous(clips)
	if p.contiguous {
		p.contiguousInit = false
	}

	segments := edl.Flatten(clips)

	// Contiguous detection with no usable segments would stall the
	// transport; substitute one full-file segment so audio still plays.
	if p.contiguous && len(segments) == 0 {
		p.log.Warn("contiguous timeline detected but no usable segments; falling back to full-file playback",
			"revision", revision)
		p.contiguous = false
		segments = edl.FullFile(p.durationSec)
	}

	p.segments = segments
	p.source.UpdateSegments(segments, p.contiguous)
	p.editedSec = 0

	p.log.Info("edl applied",
		"revision", revision,
		"clips", len(clips),
		"words", p.stats.Words,
		"spacers", p.stats.Spacers,
		"total", p.stats.Total,
		"flattened", len(segments),
		"mode", p.mode(),
	)
	if p.log.IsDebug() {
		for i, c := range clips {
			p.log.Debug("edl clip",
				"index", i,
				"id", c.ID,
				"speaker", c.Speaker,
				"segments", len(c.Segments),
				"durationSec", c.Duration(),
			)
		}
	}

	p.sink.Emit(EdlApplied{
		Type:          "edlApplied",
		ID:            p.id,
		Revision:      revision,
		WordCount:     p.stats.Words,
		SpacerCount:   p.stats.Spacers,
		TotalSegments: p.stats.Total,
		Mode:          p.mode(),
	})
}

// Close releases the device stream.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.deviceOpen {
		_ = p.device.Stop()
		_ = p.device.Close()
		p.deviceOpen = false
	}
}

// pull is the realtime block callback. It must not allocate, log, or perform
// I/O. Stop and Close wait for an in-flight callback to return while the
// caller holds p.mu, so a contended lock means one silent block, never a
// wait.
func (p *Player) pull(out []int16) {
	if !p.mu.TryLock() {
		for i := range out {
			out[i] = 0
		}
		return
	}
	defer p.mu.Unlock()

	if !p.playing || p.resampler == nil {
		for i := range out {
			out[i] = 0
		}
		return
	}

	p.resampler.ReadBlock(out)

	if p.gain != 1.0 {
		for i, v := range out {
			scaled := float64(v) * p.gain
			if scaled > math.MaxInt16 {
				scaled = math.MaxInt16
			} else if scaled < math.MinInt16 {
				scaled = math.MinInt16
			}
			out[i] = int16(scaled)
		}
	}
}

func (p *Player) reopenDevice(sampleRate, channels int) error {
	if p.deviceOpen {
		_ = p.device.Stop()
		_ = p.device.Close()
		p.deviceOpen = false
	}
	if err := p.device.Open(sampleRate, channels, p.framesPerBuffer, p.pull); err != nil {
		return err
	}
	if err := p.device.Start(); err != nil {
		_ = p.device.Close()
		return err
	}
	p.deviceOpen = true
	return nil
}

func (p *Player) mode() string {
	if p.contiguous {
		return "contiguous"
	}
	return "standard"
}

func (p *Player) emitState() {
	p.sink.Emit(State{Type: "state", ID: p.id, Playing: p.playing})
}

func (p *Player) emitPosition() {
	es := edl.SanitizeTime(p.editedSec, 0)
	os := edl.SanitizeTime(timeline.EditedToOriginal(p.segments, es), 0)
	p.sink.Emit(Position{Type: "position", ID: p.id, EditedSec: es, OriginalSec: os})
}

func (p *Player) endPlayback() {
	p.playing = false
	p.sink.Emit(Ended{Type: "ended", ID: p.id})
}
