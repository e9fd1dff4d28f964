package player

// Device abstracts the audio output device. The pull callback runs on the
// driver's realtime thread and must fill the interleaved int16 buffer within
// the block deadline.
type Device interface {
	// Initialize initializes the audio subsystem.
	Initialize() error

	// Terminate terminates the audio subsystem.
	Terminate()

	// Open opens an output stream with the given format. pull is invoked
	// once per block on the realtime thread.
	Open(sampleRate, channels, framesPerBuffer int, pull func(out []int16)) error

	// Start begins pulling blocks.
	Start() error

	// Stop halts the stream without closing it.
	Stop() error

	// Close closes the stream.
	Close() error
}
