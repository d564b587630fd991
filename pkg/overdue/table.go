// Package overdue remembers which delayed rows were already reported, so a
// check run can tell newly delayed work from work that was late yesterday.
package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/schedule"
)

const tableFile = "delayed_rows.json"

type Entry struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	End       model.Date `json:"end_date"`
	FirstSeen model.Date `json:"first_seen"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

// Report is the outcome of one Sweep.
type Report struct {
	New       []Entry
	Recovered []Entry
}

// NewTable loads the table stored in dir, or starts an empty one.
func NewTable(dir string) (*Table, error) {
	t := &Table{
		Path:    filepath.Join(dir, tableFile),
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(t.Path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(t)
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

func (t *Table) Remove(key string) {
	if _, exists := t.Entries[key]; exists {
		delete(t.Entries, key)
		t.dirty = true
	}
}

// Seen reports whether the row was already recorded as delayed.
func (t *Table) Seen(task model.Task) bool {
	_, ok := t.Entries[task.Key()]
	return ok
}

// Sweep records the currently delayed rows. Rows not seen before are
// returned as New; recorded rows that are no longer delayed (finished,
// rescheduled or removed) are dropped and returned as Recovered.
func (t *Table) Sweep(delayed []schedule.DelayedRow, today model.Date) Report {
	var r Report
	current := make(map[string]bool, len(delayed))
	for _, d := range delayed {
		key := d.Task.Key()
		current[key] = true
		old, exists := t.Entries[key]
		if exists && old.End.Equal(d.Task.End) {
			continue
		}
		e := Entry{Key: key, Label: d.Task.Label(), End: d.Task.End, FirstSeen: today}
		t.Entries[key] = e
		t.dirty = true
		r.New = append(r.New, e)
	}

	for key, e := range t.Entries {
		if !current[key] {
			r.Recovered = append(r.Recovered, e)
			delete(t.Entries, key)
			t.dirty = true
		}
	}
	sort.Slice(r.Recovered, func(i, j int) bool { return r.Recovered[i].Label < r.Recovered[j].Label })
	return r
}
