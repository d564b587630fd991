// Package index maps row keys to the calendar events published for them.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const indexFile = "events.json"

// EventIndex remembers which event holds each published row so a publish
// can patch it in place and delete events whose rows are gone.
type EventIndex struct {
	Path string

	mu     sync.RWMutex
	events map[string]string
	dirty  bool
}

// NewEventIndex loads the index stored in dir. A missing file is an empty
// index.
func NewEventIndex(dir string) (*EventIndex, error) {
	idx := &EventIndex{
		Path:   filepath.Join(dir, indexFile),
		events: make(map[string]string),
	}
	if err := idx.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return idx, nil
}

// Load replaces the in-memory mappings with the file contents.
func (idx *EventIndex) Load() error {
	data, err := os.ReadFile(idx.Path)
	if err != nil {
		return err
	}
	events := make(map[string]string)
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("corrupt event index %s: %w", idx.Path, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.events = events
	idx.dirty = false
	return nil
}

// Save writes the index if anything changed since the last load or save.
// The file is replaced atomically.
func (idx *EventIndex) Save() error {
	idx.mu.RLock()
	if !idx.dirty {
		idx.mu.RUnlock()
		return nil
	}
	idx.mu.RUnlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	data, err := json.MarshalIndent(idx.events, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	tmp := idx.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, idx.Path); err != nil {
		os.Remove(tmp)
		return err
	}
	idx.dirty = false
	return nil
}

// Get returns the event ID for key, or "" when the row was never published.
func (idx *EventIndex) Get(key string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.events[key]
}

func (idx *EventIndex) Set(key, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.events[key] == eventID {
		return
	}
	idx.events[key] = eventID
	idx.dirty = true
}

func (idx *EventIndex) Remove(key string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.events[key]; !ok {
		return
	}
	delete(idx.events, key)
	idx.dirty = true
}

// Keys returns every mapped row key in sorted order.
func (idx *EventIndex) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	keys := make([]string, 0, len(idx.events))
	for k := range idx.events {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
