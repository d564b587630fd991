package model

// External column names, in export order.
const (
	ColTask         = "Task"
	ColSubtask      = "Subtask"
	ColStartDate    = "Start Date"
	ColEndDate      = "End Date"
	ColAssignee     = "Assignee"
	ColStatus       = "Status"
	ColProgress     = "Progress"
	ColPriority     = "Priority"
	ColTimeSpent    = "Time Spent"
	ColComments     = "Comments"
	ColDependencies = "Dependencies"
	ColBudget       = "Budget"
	ColCost         = "Cost"
)

// Columns lists every external column in export order.
var Columns = []string{
	ColTask, ColSubtask, ColStartDate, ColEndDate, ColAssignee, ColStatus,
	ColProgress, ColPriority, ColTimeSpent, ColComments, ColDependencies,
	ColBudget, ColCost,
}

// IsColumn reports whether name is one of the known columns.
func IsColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}
