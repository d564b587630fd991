// Package schedule computes the derived schedule, cost and resource views.
// Every function is pure: it reads a snapshot and never mutates it.
package schedule

import (
	"fmt"
	"sort"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// DelayedRow is a row whose end date has passed.
type DelayedRow struct {
	Row      int        `json:"row"`
	Task     model.Task `json:"task"`
	DaysLate int        `json:"days_late"`
}

// Delayed returns the rows with an end date strictly before today, in store
// order. today is supplied by the caller so results never depend on the
// wall clock.
func Delayed(rows []model.Task, today model.Date) []DelayedRow {
	var out []DelayedRow
	for i, t := range rows {
		if t.End.IsZero() || !t.End.Before(today) {
			continue
		}
		late := int(today.Time().Sub(t.End.Time()).Hours() / 24)
		out = append(out, DelayedRow{Row: i, Task: t.Clone(), DaysLate: late})
	}
	return out
}

// BurnRate is total cost over total budget. It is not computable when the
// total budget is zero.
func BurnRate(rows []model.Task) (float64, error) {
	var cost, budget float64
	for _, t := range rows {
		cost += t.Cost
		budget += t.Budget
	}
	if budget == 0 {
		return 0, fmt.Errorf("burn rate: total budget is zero: %w", model.ErrNotComputable)
	}
	return cost / budget, nil
}

// OverallProgress is the mean progress of all rows. It is not computable for
// an empty table.
func OverallProgress(rows []model.Task) (float64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("overall progress: no rows: %w", model.ErrNotComputable)
	}
	var sum int
	for _, t := range rows {
		sum += t.Progress
	}
	return float64(sum) / float64(len(rows)), nil
}

// BudgetLine is the budget and cost of one task, summed over its rows.
type BudgetLine struct {
	Task   string  `json:"task"`
	Budget float64 `json:"budget"`
	Cost   float64 `json:"cost"`
}

// BudgetVsActuals groups budget and cost by task name in first appearance
// order.
func BudgetVsActuals(rows []model.Task) []BudgetLine {
	var out []BudgetLine
	pos := make(map[string]int)
	for _, t := range rows {
		i, ok := pos[t.Name]
		if !ok {
			i = len(out)
			pos[t.Name] = i
			out = append(out, BudgetLine{Task: t.Name})
		}
		out[i].Budget += t.Budget
		out[i].Cost += t.Cost
	}
	return out
}

// Point is one sample of a time series keyed by end date.
type Point struct {
	Date     model.Date `json:"date"`
	Progress int        `json:"progress"`
}

// ProgressOverTime sums progress per end date, ascending by date. Rows
// without an end date are left out.
func ProgressOverTime(rows []model.Task) []Point {
	sums := make(map[model.Date]int)
	for _, t := range rows {
		if t.End.IsZero() {
			continue
		}
		sums[t.End] += t.Progress
	}
	out := make([]Point, 0, len(sums))
	for d, p := range sums {
		out = append(out, Point{Date: d, Progress: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// BurnDown is ProgressOverTime with a running total, so it never decreases.
func BurnDown(rows []model.Task) []Point {
	out := ProgressOverTime(rows)
	total := 0
	for i := range out {
		total += out[i].Progress
		out[i].Progress = total
	}
	return out
}

// Load is the work recorded against one assignee.
type Load struct {
	Assignee string  `json:"assignee"`
	Hours    float64 `json:"hours"`
	Rows     int     `json:"rows"`
}

// ResourceLoad groups time spent and row count by assignee in first
// appearance order.
func ResourceLoad(rows []model.Task) []Load {
	var out []Load
	pos := make(map[string]int)
	for _, t := range rows {
		i, ok := pos[t.Assignee]
		if !ok {
			i = len(out)
			pos[t.Assignee] = i
			out = append(out, Load{Assignee: t.Assignee})
		}
		out[i].Hours += t.TimeSpent
		out[i].Rows++
	}
	return out
}
