package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/playhead-io/playhead/edl"
	"github.com/playhead-io/playhead/player"
)

// Controller is the set of playback operations the dispatcher routes to.
type Controller interface {
	Load(id, path string)
	Play()
	Pause()
	Stop()
	Seek(timeSec float64)
	SetRate(rate float64)
	SetVolume(value float64)
	QueryState()
	ApplyEDL(clips []edl.Clip, revision int)
}

// command is the wire shape shared by all commands; unknown fields are
// ignored. updateEdl payloads are re-parsed from the raw line so the EDL
// grammar's own tolerance rules apply.
type command struct {
	Type    string   `json:"type"`
	ID      string   `json:"id"`
	Path    string   `json:"path"`
	TimeSec *float64 `json:"timeSec"`
	Rate    *float64 `json:"rate"`
	Value   *float64 `json:"value"`
}

// maxLineBytes bounds inline command lines. Large EDLs arrive through
// updateEdlFromFile instead.
const maxLineBytes = 1024 * 1024

// Dispatcher reads commands from one reader and routes them to the
// controller. Commands run to completion synchronously; every failure is
// reported as an error event and the loop continues.
type Dispatcher struct {
	r    io.Reader
	sink player.Sink
	ctrl Controller
	log  hclog.Logger
}

func NewDispatcher(r io.Reader, sink player.Sink, ctrl Controller, log hclog.Logger) *Dispatcher {
	return &Dispatcher{r: r, sink: sink, ctrl: ctrl, log: log}
}

// Run processes commands until the reader is exhausted or the context is
// canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(d.r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		d.handleLine(line)
	}
	// Cancellation closes the reader out from under the scanner; that read
	// error is an orderly shutdown, not a failure.
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (d *Dispatcher) handleLine(line []byte) {
	var cmd command
	if err := json.Unmarshal(line, &cmd); err != nil {
		d.log.Warn("malformed command line", "error", err)
		d.sink.Emit(player.ErrorEvent{Type: "error", Message: "malformed command"})
		return
	}

	switch cmd.Type {
	case "load":
		id := cmd.ID
		if id == "" {
			id = uuid.NewString()
		}
		d.ctrl.Load(id, cmd.Path)

	case "play":
		d.ctrl.Play()

	case "pause":
		d.ctrl.Pause()

	case "stop":
		d.ctrl.Stop()

	case "seek":
		if cmd.TimeSec != nil {
			d.ctrl.Seek(*cmd.TimeSec)
		}

	case "setRate":
		if cmd.Rate != nil {
			d.ctrl.SetRate(*cmd.Rate)
		}

	case "setVolume":
		if cmd.Value != nil {
			d.ctrl.SetVolume(*cmd.Value)
		}

	case "queryState":
		d.ctrl.QueryState()

	case "updateEdl":
		clips, revision, err := edl.Parse(line)
		if err != nil {
			d.log.Warn("rejected inline EDL", "error", err)
			d.sink.Emit(player.ErrorEvent{Type: "error", Message: "Invalid EDL payload"})
			return
		}
		d.ctrl.ApplyEDL(clips, revision)

	case "updateEdlFromFile":
		d.handleEdlFile(cmd.Path)

	default:
		d.sink.Emit(player.ErrorEvent{Type: "error", Message: "unknown command"})
	}
}

// handleEdlFile reads an EDL payload from a temporary file, which sidesteps
// line-length limits on large edit lists, and deletes the file after
// consuming it.
func (d *Dispatcher) handleEdlFile(path string) {
	if path == "" {
		d.sink.Emit(player.ErrorEvent{Type: "error", Message: "Missing EDL file path"})
		return
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		d.log.Warn("unreadable EDL file", "path", path, "error", err)
		d.sink.Emit(player.ErrorEvent{Type: "error", Message: "Unable to read EDL file"})
		return
	}

	clips, revision, parseErr := edl.Parse(payload)
	if parseErr != nil {
		d.log.Warn("rejected EDL file", "path", path, "error", parseErr)
		d.sink.Emit(player.ErrorEvent{Type: "error", Message: "Invalid EDL file contents"})
		return
	}

	d.ctrl.ApplyEDL(clips, revision)
	os.Remove(path)
}
