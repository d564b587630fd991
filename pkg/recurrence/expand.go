// Package recurrence expands recurrence rules into concrete task rows.
package recurrence

import (
	"fmt"
	"iter"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/store"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

// Rule pairs a pattern with an inclusive date range.
type Rule struct {
	Pattern Pattern
	Start   model.Date
	End     model.Date
}

var rruleWeekdays = [...]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

func (r Rule) option() rrule.ROption {
	wd := rruleWeekdays[r.Pattern.Weekday]
	opt := rrule.ROption{
		Dtstart: r.Start.Time(),
		Until:   r.End.Time(),
	}
	switch r.Pattern.Kind {
	case WeeklyOnWeekday:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{wd}
	case LastWeekdayOfMonth:
		opt.Freq = rrule.MONTHLY
		opt.Byweekday = []rrule.Weekday{wd.Nth(-1)}
	}
	return opt
}

// Sequence yields generated rows one at a time. It is finite and cannot be
// restarted: once a row has been taken it is gone.
type Sequence struct {
	next     rrule.Next
	template model.Task
}

// Next returns the next generated row, or false when the range is exhausted.
func (s *Sequence) Next() (model.Task, bool) {
	if s.next == nil {
		return model.Task{}, false
	}
	at, ok := s.next()
	if !ok {
		s.next = nil
		return model.Task{}, false
	}
	t := s.template.Clone()
	t.Start = model.DateOf(at)
	t.End = t.Start.AddDays(1)
	return t, true
}

// All drains the remaining rows.
func (s *Sequence) All() iter.Seq[model.Task] {
	return func(yield func(model.Task) bool) {
		for {
			t, ok := s.Next()
			if !ok || !yield(t) {
				return
			}
		}
	}
}

// Expand prepares the rows a rule generates for taskName. A range that ends
// before it starts gives an empty sequence.
func Expand(rule Rule, taskName string) (*Sequence, error) {
	if err := rule.Pattern.Validate(); err != nil {
		return nil, err
	}
	if rule.Start.IsZero() || rule.End.IsZero() {
		return nil, fmt.Errorf("%w: range start and end are required", model.ErrInvalidRecurrenceRule)
	}
	template, err := validate.Check(1, model.Task{
		Name:     taskName,
		Status:   model.StatusNotStarted,
		Progress: 0,
	})
	if err != nil {
		return nil, err
	}

	seq := &Sequence{template: template}
	if rule.End.Before(rule.Start) {
		return seq, nil
	}
	rr, err := rrule.NewRRule(rule.option())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRecurrenceRule, err)
	}
	seq.next = rr.Iterator()
	return seq, nil
}

// AppendTo expands rule and appends every generated row to s. Existing rows
// are left untouched. It returns the generated rows.
func AppendTo(s *store.Store, rule Rule, taskName string) ([]model.Task, error) {
	seq, err := Expand(rule, taskName)
	if err != nil {
		return nil, err
	}
	var added []model.Task
	for t := range seq.All() {
		s.Append(t)
		added = append(added, t)
	}
	return added, nil
}
