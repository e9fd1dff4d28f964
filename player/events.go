package player

// Sink receives playback events. The protocol bridge implements it by
// writing one JSON object per line to stdout.
type Sink interface {
	Emit(event any)
}

// Loaded reports a successfully opened source file.
type Loaded struct {
	Type        string  `json:"type"`
	ID          string  `json:"id"`
	DurationSec float64 `json:"durationSec"`
	SampleRate  int     `json:"sampleRate"`
	Channels    int     `json:"channels"`
}

// State reports the play/pause state.
type State struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Playing bool   `json:"playing"`
}

// Position reports the playhead in both time domains.
type Position struct {
	Type        string  `json:"type"`
	ID          string  `json:"id"`
	EditedSec   float64 `json:"editedSec"`
	OriginalSec float64 `json:"originalSec"`
}

// Ended reports that playback ran past the final segment.
type Ended struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EdlApplied acknowledges an accepted EDL revision.
type EdlApplied struct {
	Type          string `json:"type"`
	ID            string `json:"id"`
	Revision      int    `json:"revision"`
	WordCount     int    `json:"wordCount"`
	SpacerCount   int    `json:"spacerCount"`
	TotalSegments int    `json:"totalSegments"`
	Mode          string `json:"mode"`
}

// ErrorEvent reports a protocol-level failure. Nothing is fatal; the command
// loop continues.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
