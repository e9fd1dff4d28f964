// Package bridge is the line-delimited JSON command/event bridge between the
// host editor process and the playback controller: commands in on stdin,
// events out on stdout, one UTF-8 object per line.
package bridge

import (
	"encoding/json"
	"io"
	"sync"
)

// Emitter serializes events as single-line JSON. Writes are mutex-guarded
// since both the command loop and the tick loop emit.
type Emitter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit marshals the event and writes it followed by a newline. Marshal
// failures are dropped; the event structs contain nothing unmarshalable.
func (e *Emitter) Emit(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.w.Write(data)
	e.w.Write([]byte{'\n'})
}
