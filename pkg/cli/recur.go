package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/recurrence"
	"github.com/harrisonrobin/taskplan/pkg/ui"
)

func newRecurCmd(a *app) *cobra.Command {
	var (
		task       string
		pattern    string
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "recur",
		Short: "Append one row per occurrence of a weekly or monthly pattern",
		Example: `  taskplan recur --task Standup --pattern weekly:monday --start 2024-08-01 --end 2024-08-31
  taskplan recur --task Review --pattern "Last Friday of the Month" --start 2024-08-01 --end 2024-10-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := recurrence.ParsePattern(pattern)
			if err != nil {
				return err
			}
			from, err := model.ParseAnyDate(start)
			if err != nil {
				return err
			}
			to, err := model.ParseAnyDate(end)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			added, err := recurrence.AppendTo(ws.store, recurrence.Rule{Pattern: p, Start: from, End: to}, task)
			if err != nil {
				return err
			}
			if err := ws.save(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(added) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No occurrences in range; nothing added."))
				return nil
			}
			dates := make([]string, len(added))
			for i, t := range added {
				dates[i] = t.Start.String()
			}
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("Added %d rows for %s (%s)", len(added), task, p)))
			fmt.Fprint(out, ui.Bullets(dates))
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task name for the generated rows")
	cmd.Flags().StringVar(&pattern, "pattern", "", `Pattern: "weekly:<day>", "last:<day>", "Weekly on Monday" or "Last Friday of the Month"`)
	cmd.Flags().StringVar(&start, "start", "", "First date of the range")
	cmd.Flags().StringVar(&end, "end", "", "Last date of the range")
	for _, name := range []string{"task", "pattern", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
