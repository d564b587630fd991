// Package validate turns raw table records into typed task rows. It is the only
// way rows enter the store, so everything past it may assume valid data.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/harrisonrobin/taskplan/pkg/model"
)

// Record is one raw row keyed by external column name. A missing key and an
// empty value both mean "absent".
type Record map[string]string

func (r Record) get(col string) string {
	return strings.TrimSpace(r[col])
}

// Result is the outcome of a batch. Accepted rows keep their batch order;
// Rows[i] is the 1-based batch row that produced Tasks[i].
type Result struct {
	Tasks    []model.Task
	Rows     []int
	Rejected []*model.FieldError
	Warnings []model.Warning
}

// Err joins every rejection, or returns nil when all rows were accepted.
func (r Result) Err() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	errs := make([]error, len(r.Rejected))
	for i, fe := range r.Rejected {
		errs[i] = fe
	}
	return errors.Join(errs...)
}

// Batch normalizes every record independently. A rejected row never stops the
// rest of the batch.
func Batch(records []Record) Result {
	var res Result
	for i, rec := range records {
		row := i + 1
		t, warnings, err := Normalize(row, rec)
		res.Warnings = append(res.Warnings, warnings...)
		if err != nil {
			var fe *model.FieldError
			if errors.As(err, &fe) {
				res.Rejected = append(res.Rejected, fe)
				continue
			}
			res.Rejected = append(res.Rejected, &model.FieldError{Row: row, Reason: err.Error()})
			continue
		}
		res.Tasks = append(res.Tasks, t)
		res.Rows = append(res.Rows, row)
	}
	return res
}

// Normalize parses one record. Unparsable dates become unset and produce a
// warning; every other constraint violation rejects the row with a
// *model.FieldError.
func Normalize(row int, rec Record) (model.Task, []model.Warning, error) {
	var warnings []model.Warning
	t := model.Task{
		Name:     rec.get(model.ColTask),
		Subtask:  rec.get(model.ColSubtask),
		Assignee: rec.get(model.ColAssignee),
		Comments: rec.get(model.ColComments),
	}

	for _, f := range []struct {
		col string
		dst *model.Date
	}{
		{model.ColStartDate, &t.Start},
		{model.ColEndDate, &t.End},
	} {
		raw := rec.get(f.col)
		d, err := model.ParseDate(raw)
		if err != nil {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnUnparsedDate,
				Row:     row,
				Field:   f.col,
				Message: fmt.Sprintf("%s %q is not a MM/DD/YYYY date; left unset for review", f.col, raw),
			})
			continue
		}
		*f.dst = d
	}

	if raw := rec.get(model.ColStatus); raw != "" {
		s, err := model.ParseStatus(raw)
		if err != nil {
			return model.Task{}, warnings, reject(row, model.ColStatus, raw, err.Error())
		}
		t.Status = s
	}
	if raw := rec.get(model.ColPriority); raw != "" {
		p, err := model.ParsePriority(raw)
		if err != nil {
			return model.Task{}, warnings, reject(row, model.ColPriority, raw, err.Error())
		}
		t.Priority = p
	}

	progress, err := number(row, model.ColProgress, rec.get(model.ColProgress))
	if err != nil {
		return model.Task{}, warnings, err
	}
	if progress != math.Trunc(progress) {
		return model.Task{}, warnings, reject(row, model.ColProgress, rec.get(model.ColProgress), "must be a whole percentage")
	}
	t.Progress = int(progress)

	if t.TimeSpent, err = number(row, model.ColTimeSpent, rec.get(model.ColTimeSpent)); err != nil {
		return model.Task{}, warnings, err
	}
	if t.Budget, err = number(row, model.ColBudget, rec.get(model.ColBudget)); err != nil {
		return model.Task{}, warnings, err
	}
	if t.Cost, err = number(row, model.ColCost, rec.get(model.ColCost)); err != nil {
		return model.Task{}, warnings, err
	}

	var dupes []string
	t.Dependencies, dupes = SplitDependencies(rec.get(model.ColDependencies))
	for _, d := range dupes {
		warnings = append(warnings, model.Warning{
			Kind:    model.WarnDuplicateReference,
			Row:     row,
			Field:   model.ColDependencies,
			Message: fmt.Sprintf("dependency %q listed more than once", d),
		})
	}

	t, err = Check(row, t)
	return t, warnings, err
}

// Check applies defaults to an already typed row and enforces the row
// invariants. Rows built in code (recurrence, add-subtask, edits) go through
// here as well.
func Check(row int, t model.Task) (model.Task, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return model.Task{}, reject(row, model.ColTask, "", "task name is required")
	}
	if strings.TrimSpace(t.Assignee) == "" {
		t.Assignee = model.DefaultAssignee
	}
	if t.Status == "" {
		t.Status = model.StatusNotStarted
	} else if _, err := model.ParseStatus(string(t.Status)); err != nil {
		return model.Task{}, reject(row, model.ColStatus, string(t.Status), err.Error())
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	} else if _, err := model.ParsePriority(string(t.Priority)); err != nil {
		return model.Task{}, reject(row, model.ColPriority, string(t.Priority), err.Error())
	}
	if t.Progress < 0 {
		return model.Task{}, reject(row, model.ColProgress, strconv.Itoa(t.Progress), "must not be negative")
	}
	if t.Progress > 100 {
		return model.Task{}, reject(row, model.ColProgress, strconv.Itoa(t.Progress), "must be at most 100")
	}
	for _, f := range []struct {
		col string
		v   float64
	}{
		{model.ColTimeSpent, t.TimeSpent},
		{model.ColBudget, t.Budget},
		{model.ColCost, t.Cost},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return model.Task{}, reject(row, f.col, FormatNumber(f.v), "must be a non-negative number")
		}
	}
	if !t.Start.IsZero() && !t.End.IsZero() && t.End.Before(t.Start) {
		return model.Task{}, reject(row, model.ColEndDate, t.End.String(), "ends before start date "+t.Start.String())
	}
	for _, dep := range t.Dependencies {
		if dep == t.Name {
			return model.Task{}, reject(row, model.ColDependencies, dep, "task cannot depend on itself")
		}
	}
	if len(t.Dependencies) == 0 {
		t.Dependencies = nil
	}
	return t, nil
}

// SplitDependencies splits the external comma separated form, trims each
// reference and drops empty ones. Repeated references are kept once and
// returned as dupes.
func SplitDependencies(s string) (deps, dupes []string) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		ref := strings.TrimSpace(part)
		if ref == "" {
			continue
		}
		if seen[ref] {
			dupes = append(dupes, ref)
			continue
		}
		seen[ref] = true
		deps = append(deps, ref)
	}
	return deps, dupes
}

// grouped matches numbers written with comma thousands separators.
var grouped = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

func number(row int, col, raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	digits := raw
	if strings.Contains(raw, ",") {
		if !grouped.MatchString(raw) {
			return 0, reject(row, col, raw, "malformed thousands separator")
		}
		digits = strings.ReplaceAll(raw, ",", "")
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, reject(row, col, raw, "not a number")
	}
	if v < 0 {
		return 0, reject(row, col, raw, "must not be negative")
	}
	return v, nil
}

func reject(row int, col, value, reason string) error {
	return &model.FieldError{Row: row, Field: col, Value: value, Reason: reason}
}
