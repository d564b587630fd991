package google

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

// KeyProperty is the private extended property carrying the row key.
const KeyProperty = "taskplan_key"

// ErrUnscheduled is returned for rows missing a start or end date.
var ErrUnscheduled = errors.New("row has no start or end date")

// SummaryPrefix marks finished, in progress and delayed rows.
func SummaryPrefix(t model.Task, today model.Date) string {
	switch {
	case t.Status.Finished():
		return "✓"
	case t.Status == model.StatusInProgress:
		return "‣"
	case !t.End.IsZero() && t.End.Before(today):
		return "!"
	default:
		return ""
	}
}

// ConvertTaskToEvent turns a scheduled row into an all-day event spanning its
// start and end dates inclusively.
func ConvertTaskToEvent(t model.Task, today model.Date, colorID string) (*calendar.Event, error) {
	if !t.Scheduled() {
		return nil, fmt.Errorf("%s: %w", t.Label(), ErrUnscheduled)
	}

	summary := t.Label()
	if prefix := SummaryPrefix(t, today); prefix != "" {
		summary = prefix + " " + summary
	}

	return &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: t.Start.ISO()},
		End:         &calendar.EventDateTime{Date: t.End.AddDays(1).ISO()},
		Description: describe(t, today),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{KeyProperty: t.Key()},
		},
	}, nil
}

func describe(t model.Task, today model.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s (%d%%)\n", t.Status, t.Progress)
	fmt.Fprintf(&b, "Assignee: %s\n", t.Assignee)
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	if len(t.Dependencies) > 0 {
		fmt.Fprintf(&b, "Depends on: %s\n", t.DependencyList())
	}

	b.WriteString("\nAccounting:\n")
	if t.TimeSpent > 0 {
		fmt.Fprintf(&b, "• spent: %sh\n", validate.FormatNumber(t.TimeSpent))
	}
	fmt.Fprintf(&b, "• budget: %s\n", validate.FormatNumber(t.Budget))
	fmt.Fprintf(&b, "• cost: %s\n", validate.FormatNumber(t.Cost))
	if over := t.Cost - t.Budget; over > 0 {
		fmt.Fprintf(&b, "• over budget by: %s\n", validate.FormatNumber(over))
	}
	if !t.Status.Finished() && t.End.Before(today) {
		days := int(today.Time().Sub(t.End.Time()).Hours() / 24)
		fmt.Fprintf(&b, "• late by: %d days\n", days)
	}

	if t.Comments != "" {
		b.WriteString("\nNotes:\n")
		fmt.Fprintf(&b, "‣ %s\n", t.Comments)
	}
	return b.String()
}

// EventNeedsUpdate returns a patch holding the fields of target that differ
// from existing, or nil when they match.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}
