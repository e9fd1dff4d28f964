package player

import (
	"errors"

	"github.com/gordonklaus/portaudio"
)

// PortAudioDevice drives the default output device through a callback
// stream, so block rendering happens on portaudio's realtime thread.
type PortAudioDevice struct {
	stream *portaudio.Stream
}

// Ensure PortAudioDevice implements the Device interface.
var _ Device = (*PortAudioDevice)(nil)

func NewPortAudioDevice() *PortAudioDevice {
	return &PortAudioDevice{}
}

func (d *PortAudioDevice) Initialize() error {
	return portaudio.Initialize()
}

func (d *PortAudioDevice) Terminate() {
	portaudio.Terminate()
}

func (d *PortAudioDevice) Open(sampleRate, channels, framesPerBuffer int, pull func(out []int16)) error {
	stream, err := portaudio.OpenDefaultStream(
		0,
		channels,
		float64(sampleRate),
		framesPerBuffer,
		pull,
	)
	if err != nil {
		return err
	}
	d.stream = stream
	return nil
}

func (d *PortAudioDevice) Start() error {
	if d.stream == nil {
		return errors.New("stream not opened")
	}
	return d.stream.Start()
}

func (d *PortAudioDevice) Stop() error {
	if d.stream == nil {
		return nil
	}
	return d.stream.Stop()
}

func (d *PortAudioDevice) Close() error {
	if d.stream == nil {
		return nil
	}
	err := d.stream.Close()
	d.stream = nil
	return err
}
