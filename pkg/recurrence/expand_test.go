package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/store"
)

func date(m time.Month, d int) model.Date { return model.NewDate(2024, m, d) }

func collect(t *testing.T, rule Rule) []model.Task {
	t.Helper()
	seq, err := Expand(rule, "Standup")
	require.NoError(t, err)
	var out []model.Task
	for task := range seq.All() {
		out = append(out, task)
	}
	return out
}

func starts(tasks []model.Task) []model.Date {
	var out []model.Date
	for _, t := range tasks {
		out = append(out, t.Start)
	}
	return out
}

func TestWeeklyOnMondayInAugust(t *testing.T) {
	tasks := collect(t, Rule{
		Pattern: Weekly(time.Monday),
		Start:   date(time.August, 1),
		End:     date(time.August, 31),
	})
	assert.Equal(t, []model.Date{
		date(time.August, 5), date(time.August, 12), date(time.August, 19), date(time.August, 26),
	}, starts(tasks))

	for _, task := range tasks {
		assert.Equal(t, task.Start.AddDays(1), task.End)
		assert.Equal(t, model.StatusNotStarted, task.Status)
		assert.Equal(t, 0, task.Progress)
		assert.Equal(t, "Standup", task.Name)
		assert.Equal(t, model.DefaultAssignee, task.Assignee)
	}
}

func TestWeeklyIncludesRangeBounds(t *testing.T) {
	tasks := collect(t, Rule{
		Pattern: Weekly(time.Monday),
		Start:   date(time.August, 5),
		End:     date(time.August, 12),
	})
	assert.Equal(t, []model.Date{date(time.August, 5), date(time.August, 12)}, starts(tasks))
}

func TestLastFridayOfMonth(t *testing.T) {
	tasks := collect(t, Rule{
		Pattern: LastOfMonth(time.Friday),
		Start:   date(time.August, 1),
		End:     date(time.October, 31),
	})
	assert.Equal(t, []model.Date{
		date(time.August, 30), date(time.September, 27), date(time.October, 25),
	}, starts(tasks))
}

func TestLastWeekdayRestrictedToRange(t *testing.T) {
	tasks := collect(t, Rule{
		Pattern: LastOfMonth(time.Friday),
		Start:   date(time.August, 31),
		End:     date(time.September, 20),
	})
	assert.Empty(t, tasks)
}

func TestReversedRangeIsEmpty(t *testing.T) {
	tasks := collect(t, Rule{
		Pattern: Weekly(time.Monday),
		Start:   date(time.August, 31),
		End:     date(time.August, 1),
	})
	assert.Empty(t, tasks)
}

func TestUnknownPatternFails(t *testing.T) {
	_, err := Expand(Rule{Pattern: Pattern{Kind: 42}, Start: date(time.August, 1), End: date(time.August, 2)}, "x")
	assert.ErrorIs(t, err, model.ErrInvalidRecurrenceRule)

	_, err = Expand(Rule{Pattern: Weekly(time.Weekday(9)), Start: date(time.August, 1), End: date(time.August, 2)}, "x")
	assert.ErrorIs(t, err, model.ErrInvalidRecurrenceRule)
}

func TestEmptyTaskNameRejected(t *testing.T) {
	_, err := Expand(Rule{Pattern: Weekly(time.Monday), Start: date(time.August, 1), End: date(time.August, 31)}, " ")
	assert.ErrorIs(t, err, model.ErrInvalidField)
}

func TestSequenceIsNotRestartable(t *testing.T) {
	seq, err := Expand(Rule{Pattern: Weekly(time.Monday), Start: date(time.August, 1), End: date(time.August, 31)}, "Standup")
	require.NoError(t, err)

	first, ok := seq.Next()
	require.True(t, ok)
	assert.Equal(t, date(time.August, 5), first.Start)

	var rest int
	for range seq.All() {
		rest++
	}
	assert.Equal(t, 3, rest)

	_, ok = seq.Next()
	assert.False(t, ok)
	for range seq.All() {
		t.Fatal("drained sequence yielded again")
	}
}

func TestAppendToLeavesExistingRows(t *testing.T) {
	s := store.New(model.Task{Name: "Design", Progress: 100})
	added, err := AppendTo(s, Rule{
		Pattern: Weekly(time.Monday),
		Start:   date(time.August, 1),
		End:     date(time.August, 31),
	}, "Standup")
	require.NoError(t, err)
	assert.Len(t, added, 4)
	assert.Equal(t, 5, s.Len())

	first, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, model.Task{Name: "Design", Progress: 100}, first)
}

func TestAppendToInvalidRuleAddsNothing(t *testing.T) {
	s := store.New()
	_, err := AppendTo(s, Rule{Pattern: Pattern{}, Start: date(time.August, 1), End: date(time.August, 31)}, "x")
	assert.ErrorIs(t, err, model.ErrInvalidRecurrenceRule)
	assert.Equal(t, 0, s.Len())
}
