// Package seed provides the demo project loaded when no file was imported.
package seed

import (
	"time"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

func d(m time.Month, day int) model.Date { return model.NewDate(2024, m, day) }

// Project returns a fresh copy of the demo rows.
func Project() []model.Task {
	return []model.Task{
		{Name: "Design", Subtask: "Requirement Gathering", Start: d(8, 1), End: d(8, 2), Assignee: "Alice",
			Status: model.StatusCompleted, Progress: 100, Priority: model.PriorityHigh, TimeSpent: 16,
			Comments: "Requirements finalized", Budget: 5000, Cost: 4800},
		{Name: "Design", Subtask: "UI/UX Design", Start: d(8, 3), End: d(8, 6), Assignee: "Bob",
			Status: model.StatusInProgress, Progress: 60, Priority: model.PriorityMedium, TimeSpent: 24,
			Comments: "UI/UX in progress", Dependencies: []string{"Requirement Gathering"}, Budget: 8000, Cost: 4000},
		{Name: "Design", Subtask: "Approval", Start: d(8, 7), End: d(8, 9), Assignee: "Charlie",
			Status: model.StatusNotStarted, Priority: model.PriorityMedium,
			Dependencies: []string{"UI/UX Design"}, Budget: 2000},
		{Name: "Development", Subtask: "Backend Development", Start: d(8, 10), End: d(8, 14), Assignee: "David",
			Status: model.StatusInProgress, Progress: 50, Priority: model.PriorityHigh, TimeSpent: 40,
			Comments: "Backend API development ongoing", Dependencies: []string{"Approval"}, Budget: 15000, Cost: 6000},
		{Name: "Development", Subtask: "Frontend Development", Start: d(8, 15), End: d(8, 20), Assignee: "Eve",
			Status: model.StatusNotStarted, Priority: model.PriorityMedium,
			Dependencies: []string{"Backend Development"}, Budget: 12000},
		{Name: "Testing", Subtask: "Unit Testing", Start: d(8, 20), End: d(8, 24), Assignee: "Frank",
			Status: model.StatusNotStarted, Priority: model.PriorityHigh,
			Dependencies: []string{"Frontend Development"}, Budget: 5000},
		{Name: "Testing", Subtask: "Integration Testing", Start: d(8, 25), End: d(8, 30), Assignee: "Grace",
			Status: model.StatusNotStarted, Priority: model.PriorityMedium,
			Dependencies: []string{"Unit Testing"}, Budget: 8000},
		{Name: "Deployment", Subtask: "Go Live", Start: d(9, 1), End: d(9, 5), Assignee: "Heidi",
			Status: model.StatusNotStarted, Priority: model.PriorityHigh,
			Dependencies: []string{"Integration Testing"}, Budget: 10000},
	}
}
