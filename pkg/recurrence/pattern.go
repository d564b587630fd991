package recurrence

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Kind selects how a Pattern picks dates.
type Kind int

const (
	// WeeklyOnWeekday matches every date on the weekday.
	WeeklyOnWeekday Kind = iota + 1
	// LastWeekdayOfMonth matches the last such weekday of each month.
	LastWeekdayOfMonth
)

// Pattern is a recurrence pattern such as "every Monday" or "last Friday of
// the month".
type Pattern struct {
	Kind    Kind
	Weekday time.Weekday
}

func Weekly(w time.Weekday) Pattern { return Pattern{Kind: WeeklyOnWeekday, Weekday: w} }

func LastOfMonth(w time.Weekday) Pattern { return Pattern{Kind: LastWeekdayOfMonth, Weekday: w} }

func (p Pattern) Validate() error {
	if p.Weekday < time.Sunday || p.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d out of range", model.ErrInvalidRecurrenceRule, int(p.Weekday))
	}
	switch p.Kind {
	case WeeklyOnWeekday, LastWeekdayOfMonth:
		return nil
	}
	return fmt.Errorf("%w: unknown pattern kind %d", model.ErrInvalidRecurrenceRule, int(p.Kind))
}

func (p Pattern) String() string {
	switch p.Kind {
	case WeeklyOnWeekday:
		return "Weekly on " + p.Weekday.String()
	case LastWeekdayOfMonth:
		return "Last " + p.Weekday.String() + " of the Month"
	}
	return fmt.Sprintf("Pattern(%d)", int(p.Kind))
}

var (
	weeklyLabel = regexp.MustCompile(`^weekly on (\w+)$`)
	lastLabel   = regexp.MustCompile(`^last (\w+) of the month$`)
)

// ParsePattern accepts "weekly:<weekday>", "last:<weekday>" and the labels
// "Weekly on Monday" / "Last Friday of the Month" for any weekday.
func ParsePattern(s string) (Pattern, error) {
	in := strings.ToLower(strings.Join(strings.Fields(s), " "))

	var kind Kind
	var day string
	switch {
	case strings.HasPrefix(in, "weekly:"):
		kind, day = WeeklyOnWeekday, strings.TrimPrefix(in, "weekly:")
	case strings.HasPrefix(in, "last:"):
		kind, day = LastWeekdayOfMonth, strings.TrimPrefix(in, "last:")
	default:
		if m := weeklyLabel.FindStringSubmatch(in); m != nil {
			kind, day = WeeklyOnWeekday, m[1]
		} else if m := lastLabel.FindStringSubmatch(in); m != nil {
			kind, day = LastWeekdayOfMonth, m[1]
		} else {
			return Pattern{}, fmt.Errorf("%w: %q", model.ErrInvalidRecurrenceRule, s)
		}
	}

	w, err := parseWeekday(strings.TrimSpace(day))
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %q: %v", model.ErrInvalidRecurrenceRule, s, err)
	}
	return Pattern{Kind: kind, Weekday: w}, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
