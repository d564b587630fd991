package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/schedule"
	"github.com/harrisonrobin/taskplan/pkg/seed"
	"github.com/harrisonrobin/taskplan/pkg/ui"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

var listHeaders = []string{"#", "Task", "Subtask", "Start", "End", "Assignee", "Status", "Progress", "Priority", "Dependencies"}

func renderRows(out io.Writer, rows []model.Task, today model.Date) {
	late := make(map[int]bool)
	for _, d := range schedule.Delayed(rows, today) {
		late[d.Row] = !d.Task.Status.Finished()
	}
	cells := make([][]string, len(rows))
	for i, t := range rows {
		cells[i] = []string{
			strconv.Itoa(i + 1), t.Name, t.Subtask, t.Start.String(), t.End.String(), t.Assignee,
			string(t.Status), strconv.Itoa(t.Progress) + "%", string(t.Priority), t.DependencyList(),
		}
	}
	fmt.Fprintln(out, ui.Table(listHeaders, cells, func(row int) bool { return late[row] }))
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the task table; unfinished late rows are highlighted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			rows := ws.store.Snapshot()
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("The table is empty."))
				return nil
			}
			renderRows(cmd.OutOrStdout(), rows, a.today)
			return nil
		},
	}
}

// rowFlags binds one string flag per column.
type rowFlags map[string]*string

var columnFlags = map[string]string{
	model.ColTask:         "task",
	model.ColSubtask:      "subtask",
	model.ColStartDate:    "start",
	model.ColEndDate:      "end",
	model.ColAssignee:     "assignee",
	model.ColStatus:       "status",
	model.ColProgress:     "progress",
	model.ColPriority:     "priority",
	model.ColTimeSpent:    "time-spent",
	model.ColComments:     "comments",
	model.ColDependencies: "deps",
	model.ColBudget:       "budget",
	model.ColCost:         "cost",
}

func bindRowFlags(cmd *cobra.Command) rowFlags {
	f := make(rowFlags)
	for _, col := range model.Columns {
		v := new(string)
		cmd.Flags().StringVar(v, columnFlags[col], "", col)
		f[col] = v
	}
	return f
}

func (f rowFlags) record() validate.Record {
	rec := make(validate.Record)
	for col, v := range f {
		rec[col] = *v
	}
	return rec
}

func newAddSubtaskCmd(a *app) *cobra.Command {
	var flags rowFlags

	cmd := &cobra.Command{
		Use:   "add-subtask",
		Short: "Append a row to the table",
		Example: `  taskplan add-subtask --task Design --subtask Review --start 08/10/2024 --end 08/12/2024 \
      --assignee Alice --priority High --deps "UI/UX Design"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			row := ws.store.Len() + 1
			t, warnings, err := validate.Normalize(row, flags.record())
			if err != nil {
				return err
			}
			ws.store.Append(t)
			if err := ws.save(ctx); err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), warnings)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("Added row %d: %s", row, t.Label())))
			return nil
		},
	}
	flags = bindRowFlags(cmd)
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

// parseChanges reads Column=Value pairs.
func parseChanges(pairs []string) (map[string]string, error) {
	changes := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok {
			return nil, fmt.Errorf("expected Column=Value, got %q", p)
		}
		if !model.IsColumn(col) {
			return nil, fmt.Errorf("unknown column %q (columns: %s)", col, strings.Join(model.Columns, ", "))
		}
		changes[col] = val
	}
	return changes, nil
}

func newEditCmd(a *app) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:     "edit <row>",
		Short:   "Change columns of one row",
		Example: `  taskplan edit 3 --set Status="In Progress" --set Progress=20`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets) == 0 {
				return errors.New("nothing to change: pass at least one --set Column=Value")
			}
			changes, err := parseChanges(sets)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			idx, err := rowIndex(args[0], ws.store.Len())
			if err != nil {
				return err
			}
			current, err := ws.store.At(idx)
			if err != nil {
				return err
			}
			t, warnings, err := validate.Normalize(idx+1, validate.ToRecord(current).Apply(changes))
			if err != nil {
				return err
			}
			if err := ws.store.Update(idx, t); err != nil {
				return err
			}
			if err := ws.save(ctx); err != nil {
				return err
			}
			printWarnings(cmd.OutOrStdout(), warnings)
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("Updated row %d: %s", idx+1, t.Label())))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Column=Value to change (repeatable)")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <row>",
		Short: "Delete one row; later rows move up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			idx, err := rowIndex(args[0], ws.store.Len())
			if err != nil {
				return err
			}
			removed, err := ws.store.Remove(idx)
			if err != nil {
				return err
			}
			if err := ws.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed row %d: %s\n", idx+1, removed.Label())
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the table with the demo project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			ws.store.Replace(seed.Project())
			if err := ws.save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d demo rows\n", ws.store.Len())
			return nil
		},
	}
}
