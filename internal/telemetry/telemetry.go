// Package telemetry records editing sessions as JSONL. A Recorder turns
// space signals and undo stack events into Events; an Emitter appends them
// to a file.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event kinds. The command kinds mirror command.EventKind values.
const (
	KindSessionStart  = "session_start"
	KindItemAdded     = "item_added"
	KindItemRemoved   = "item_removed"
	KindItemsRemoved  = "items_removed"
	KindItemUpdated   = "item_updated"
	KindFramesUpdated = "frames_updated"
	KindCommandDone   = "command_done"
	KindCommandUndone = "command_undone"
	KindCommandRedone = "command_redone"
)

// Event is one line of a telemetry file. ItemID names the item the event
// concerns, if any; Data holds kind-specific fields.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Session   string    `json:"session,omitempty"`
	ItemID    string    `json:"item,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// SessionPath returns the file a session writes to. A configured path
// ending in .jsonl is used as is and shared by every session; anything else
// is a directory holding one file per session, named by start time and the
// first eight characters of the session ID.
func SessionPath(configured, session string, start time.Time) string {
	if filepath.Ext(configured) == ".jsonl" {
		return configured
	}
	if len(session) > 8 {
		session = session[:8]
	}
	return filepath.Join(configured, start.Format("20060102-150405")+"-"+session+".jsonl")
}

// Emitter appends events to a JSONL file, one object per line. It is safe
// for concurrent use. A nil *Emitter discards everything, so callers can
// hold one unconditionally when telemetry is off.
type Emitter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewEmitter opens path for appending, creating it and its directory if
// needed.
func NewEmitter(path string) (*Emitter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("telemetry: create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{file: f, enc: json.NewEncoder(f)}, nil
}

// Emit appends evt.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode %s event: %w", evt.Kind, err)
	}
	return nil
}

// Close closes the file.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
