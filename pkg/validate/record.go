package validate

import (
	"strconv"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// ToRecord renders a row in its external form. Normalize(ToRecord(t)) gives
// back t for any valid row.
func ToRecord(t model.Task) Record {
	return Record{
		model.ColTask:         t.Name,
		model.ColSubtask:      t.Subtask,
		model.ColStartDate:    t.Start.String(),
		model.ColEndDate:      t.End.String(),
		model.ColAssignee:     t.Assignee,
		model.ColStatus:       string(t.Status),
		model.ColProgress:     strconv.Itoa(t.Progress),
		model.ColPriority:     string(t.Priority),
		model.ColTimeSpent:    FormatNumber(t.TimeSpent),
		model.ColComments:     t.Comments,
		model.ColDependencies: t.DependencyList(),
		model.ColBudget:       FormatNumber(t.Budget),
		model.ColCost:         FormatNumber(t.Cost),
	}
}

// Values returns the record's cells in model.Columns order.
func (r Record) Values() []string {
	out := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		out[i] = r[c]
	}
	return out
}

// Apply overlays changes onto a copy of r. Unknown columns are ignored.
func (r Record) Apply(changes map[string]string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range changes {
		if model.IsColumn(k) {
			out[k] = v
		}
	}
	return out
}

// FormatNumber writes the shortest decimal form of v ("8", "1.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
