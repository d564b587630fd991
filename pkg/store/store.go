// Package store holds the ordered table of task rows. It is the single source
// of truth; every derived view is computed from a fresh Snapshot.
package store

import (
	"fmt"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Store is an ordered sequence of task rows. Position is the only identity a
// row has, and positions shift when rows are removed.
//
// Store is not safe for concurrent use; callers serialize access.
type Store struct {
	rows []model.Task
}

func New(tasks ...model.Task) *Store {
	s := &Store{}
	s.Append(tasks...)
	return s
}

func (s *Store) Len() int { return len(s.rows) }

// Append adds rows at the end and returns the index of the first one.
func (s *Store) Append(tasks ...model.Task) int {
	first := len(s.rows)
	for _, t := range tasks {
		s.rows = append(s.rows, t.Clone())
	}
	return first
}

// At returns a copy of the row at index.
func (s *Store) At(index int) (model.Task, error) {
	if err := s.check(index); err != nil {
		return model.Task{}, err
	}
	return s.rows[index].Clone(), nil
}

// Update replaces the row at index in place.
func (s *Store) Update(index int, t model.Task) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.rows[index] = t.Clone()
	return nil
}

// Remove deletes the row at index; later rows move up by one.
func (s *Store) Remove(index int) (model.Task, error) {
	if err := s.check(index); err != nil {
		return model.Task{}, err
	}
	removed := s.rows[index]
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return removed, nil
}

// Replace swaps the whole content, as a file import does.
func (s *Store) Replace(tasks []model.Task) {
	s.rows = nil
	s.Append(tasks...)
}

// Snapshot returns a deep copy of every row in order.
func (s *Store) Snapshot() []model.Task {
	out := make([]model.Task, len(s.rows))
	for i, t := range s.rows {
		out[i] = t.Clone()
	}
	return out
}

// TaskNames returns the distinct task names in first appearance order.
func (s *Store) TaskNames() []string {
	return DistinctNames(s.rows)
}

// DistinctNames returns the distinct task names of rows in first appearance order.
func DistinctNames(rows []model.Task) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range rows {
		if !seen[t.Name] {
			seen[t.Name] = true
			names = append(names, t.Name)
		}
	}
	return names
}

func (s *Store) check(index int) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("row index %d out of range [0,%d)", index, len(s.rows))
	}
	return nil
}
