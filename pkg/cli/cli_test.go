package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/taskplan/pkg/config"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/tabular"
)

// sandbox points the configuration directory at a fresh temp dir.
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	for _, k := range []string{"TASKPLAN_DATABASE", "TASKPLAN_CALENDAR", "TASKPLAN_LOG_LEVEL", "TASKPLAN_LOG_FORMAT", "TASKPLAN_LISTEN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, strings.Join(args, " "))
	return out
}

func TestListStartsFromDemoProject(t *testing.T) {
	sandbox(t)
	out := mustRun(t, "list", "--today", "2024-08-08")
	assert.Contains(t, out, "Requirement Gathering")
	assert.Contains(t, out, "Go Live")
}

func TestAddEditRemovePersist(t *testing.T) {
	sandbox(t)

	out := mustRun(t, "add-subtask", "--task", "Docs", "--subtask", "Guide",
		"--start", "09/06/2024", "--end", "09/09/2024", "--deps", "Go Live", "--budget", "1,500")
	assert.Contains(t, out, "Added row 9: Docs / Guide")

	mustRun(t, "edit", "9", "--set", "Status=In Progress", "--set", "Progress=40")
	out = mustRun(t, "list")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "40%")

	out = mustRun(t, "remove", "1")
	assert.Contains(t, out, "Removed row 1: Design / Requirement Gathering")
	out = mustRun(t, "list")
	assert.NotContains(t, out, "Alice")
}

func TestRejectedEditLeavesRowUnchanged(t *testing.T) {
	sandbox(t)

	_, err := run(t, "edit", "2", "--set", "Progress=150")
	assert.ErrorIs(t, err, model.ErrInvalidField)

	_, err = run(t, "edit", "2", "--set", "Colour=red")
	assert.ErrorContains(t, err, "unknown column")

	_, err = run(t, "remove", "42")
	assert.ErrorContains(t, err, "does not exist")

	out := mustRun(t, "list")
	assert.Contains(t, out, "60%")
}

func TestImportExportRoundTrip(t *testing.T) {
	home := sandbox(t)
	exported := filepath.Join(home, "plan.xlsx")
	mustRun(t, "export", exported)

	csvPath := filepath.Join(home, "small.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Task,Subtask,End Date,Progress,Dependencies\n"+
			"Alpha,One,08/01/2024,10,\n"+
			"Beta,Two,08/05/2024,200,Alpha\n"+
			"Gamma,Three,08/09/2024,0,Ghost\n"), 0600))

	out := mustRun(t, "import", csvPath)
	assert.Contains(t, out, "Imported 2 of 3 rows")
	assert.Contains(t, out, "rejected")
	assert.Contains(t, out, "Ghost")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Go Live")

	mustRun(t, "import", exported)
	res, err := tabular.Ingest(exported)
	require.NoError(t, err)
	assert.Len(t, res.Tasks, 8)
	assert.Contains(t, mustRun(t, "list"), "Go Live")

	_, err = run(t, "import", filepath.Join(home, "plan.json"))
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestTemplateWritesHeaderOnly(t *testing.T) {
	home := sandbox(t)
	path := filepath.Join(home, "blank.csv")
	mustRun(t, "template", path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(model.Columns, ",")+"\n", string(b))
}

func TestRecurAppendsRows(t *testing.T) {
	sandbox(t)
	out := mustRun(t, "recur", "--task", "Standup", "--pattern", "weekly:monday", "--start", "2024-08-01", "--end", "2024-08-31")
	assert.Contains(t, out, "Added 4 rows for Standup (Weekly on Monday)")
	assert.Contains(t, out, "08/26/2024")

	_, err := run(t, "recur", "--task", "Standup", "--pattern", "fortnightly", "--start", "2024-08-01", "--end", "2024-08-31")
	assert.ErrorIs(t, err, model.ErrInvalidRecurrenceRule)
}

func TestCheckHighlightsOnlyNewDelays(t *testing.T) {
	sandbox(t)
	out := mustRun(t, "check", "--today", "2024-08-08")
	assert.Contains(t, out, "2 delayed rows")
	assert.Equal(t, 2, strings.Count(out, "new"))

	out = mustRun(t, "check", "--today", "2024-08-11")
	assert.Contains(t, out, "3 delayed rows")
	assert.Equal(t, 1, strings.Count(out, "new"))

	out = mustRun(t, "check", "--today", "2024-07-01")
	assert.Contains(t, out, "Nothing is delayed")
	assert.Contains(t, out, "no longer delayed: Design / Approval")
}

func TestViews(t *testing.T) {
	sandbox(t)

	out := mustRun(t, "graph")
	assert.Contains(t, out, "Design → Development → Testing → Deployment")

	out = mustRun(t, "report", "--today", "2024-09-10")
	assert.Contains(t, out, "Burn rate: 0.23")
	assert.Contains(t, out, "Overall progress: 26.")
	assert.Contains(t, out, "Delayed rows: 8")

	out = mustRun(t, "kanban")
	assert.Contains(t, out, "To Do (5)")
	assert.Contains(t, out, "Done (1)")
}

func TestReportOnEmptyTable(t *testing.T) {
	home := sandbox(t)
	path := filepath.Join(home, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Task\n"), 0600))
	mustRun(t, "import", path)

	out := mustRun(t, "report")
	assert.Contains(t, out, "Burn rate: n/a")
	assert.Contains(t, out, "Overall progress: n/a")
}

func TestSetCalendar(t *testing.T) {
	home := sandbox(t)
	mustRun(t, "config", "set-calendar", "Team Plan")

	cfg, err := config.LoadFrom(filepath.Join(home, "taskplan", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Team Plan", cfg.Calendar)
	assert.Contains(t, mustRun(t, "config", "show"), "calendar: Team Plan")
}

func TestBadTodayFlag(t *testing.T) {
	sandbox(t)
	_, err := run(t, "list", "--today", "tomorrow")
	assert.ErrorContains(t, err, "invalid --today")
}

func TestDetachedPublishKeepsGlobalFlags(t *testing.T) {
	a := &app{today: model.NewDate(2024, 8, 8)}
	assert.Equal(t,
		[]string{"publish", "--calendar", "Tasks", "--today", "2024-08-08"},
		a.detachedArgs("Tasks"))

	a.logLevel = "debug"
	assert.Equal(t,
		[]string{"publish", "--calendar", "Tasks", "--today", "2024-08-08", "--log-level", "debug"},
		a.detachedArgs("Tasks"))
}
