package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status is the workflow state of a task row.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusDone       Status = "Done"
)

// ParseStatus accepts the external label, case and spacing insensitive
// ("not started", "NotStarted", "in-progress").
func ParseStatus(s string) (Status, error) {
	switch normalizeLabel(s) {
	case "notstarted", "todo":
		return StatusNotStarted, nil
	case "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Finished reports whether the status counts as done work.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusDone
}

// Priority is the relative importance of a task row.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func ParsePriority(s string) (Priority, error) {
	switch normalizeLabel(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

func normalizeLabel(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// DefaultAssignee is used for rows that name nobody.
const DefaultAssignee = "Unassigned"

// Task is one row of the project table. Rows sharing Name are the subtasks of
// one task; a row with an empty Subtask is the task-level row.
type Task struct {
	Name         string   `json:"task"`
	Subtask      string   `json:"subtask"`
	Start        Date     `json:"start_date"`
	End          Date     `json:"end_date"`
	Assignee     string   `json:"assignee"`
	Status       Status   `json:"status"`
	Progress     int      `json:"progress"`
	Priority     Priority `json:"priority"`
	TimeSpent    float64  `json:"time_spent"`
	Comments     string   `json:"comments"`
	Dependencies []string `json:"dependencies"`
	Budget       float64  `json:"budget"`
	Cost         float64  `json:"cost"`
}

// keyNamespace scopes row keys so they never collide with other v5 UUIDs.
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/harrisonrobin/taskplan/task"))

// Key derives a stable identifier from the task name, subtask name and start
// date. It is only meant for matching a row against external state (calendar
// events, alert tables) across runs; inside the store rows are positional.
func (t Task) Key() string {
	return uuid.NewSHA1(keyNamespace, []byte(t.Name+"\x00"+t.Subtask+"\x00"+t.Start.ISO())).String()
}

// Label is the human name of the row: "Task / Subtask" or just "Task".
func (t Task) Label() string {
	if t.Subtask == "" {
		return t.Name
	}
	return t.Name + " / " + t.Subtask
}

// Scheduled reports whether the row has both dates set.
func (t Task) Scheduled() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	if t.Dependencies != nil {
		t.Dependencies = append([]string(nil), t.Dependencies...)
	}
	return t
}

// DependencyList renders Dependencies in their external comma separated form.
func (t Task) DependencyList() string {
	return strings.Join(t.Dependencies, ", ")
}
