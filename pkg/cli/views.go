package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/depgraph"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/overdue"
	"github.com/harrisonrobin/taskplan/pkg/schedule"
	"github.com/harrisonrobin/taskplan/pkg/ui"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

func newGraphCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Show task dependencies, a safe working order and any problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			g := depgraph.Build(ws.store.Snapshot())
			out := cmd.OutOrStdout()

			cells := make([][]string, 0, len(g.Nodes()))
			for _, n := range g.Nodes() {
				cells = append(cells, []string{n, strings.Join(g.Predecessors(n), ", "), strings.Join(g.Successors(n), ", ")})
			}
			fmt.Fprintln(out, ui.Heading("Dependencies"))
			fmt.Fprintln(out, ui.Table([]string{"Task", "Waits on", "Blocks"}, cells, nil))

			links := g.Links()
			if len(links) > 0 {
				lc := make([][]string, len(links))
				for i, l := range links {
					lc[i] = []string{l.Predecessor, l.Successor, l.Reference, l.From.String(), l.To.String()}
				}
				fmt.Fprintln(out, ui.Table([]string{"From", "To", "Via", "Ends", "Starts"}, lc, func(row int) bool {
					return !links[row].From.IsZero() && !links[row].To.IsZero() && links[row].To.Before(links[row].From)
				}))
			}

			fmt.Fprintln(out, ui.LabelValue("Order", strings.Join(g.TopoOrder(), " → ")))
			printWarnings(out, g.Warnings())
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize progress, cost and workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			rows := ws.store.Snapshot()
			out := cmd.OutOrStdout()
			h := schedule.Summarize(rows, a.today)

			fmt.Fprintln(out, ui.Heading("Project health as of "+a.today.String()))
			fmt.Fprintln(out, ui.LabelValue("Rows", h.Rows))
			fmt.Fprintln(out, ui.LabelValue("Overall progress", h.OverallProgress.Format(1)+pct(h.OverallProgress)))
			fmt.Fprintln(out, ui.LabelValue("Burn rate", h.BurnRate.Format(2)))
			fmt.Fprintln(out, ui.LabelValue("Budget", validate.FormatNumber(h.TotalBudget)))
			fmt.Fprintln(out, ui.LabelValue("Cost", validate.FormatNumber(h.TotalCost)))
			fmt.Fprintln(out, ui.LabelValue("Delayed rows", h.Delayed))

			if lines := schedule.BudgetVsActuals(rows); len(lines) > 0 {
				cells := make([][]string, len(lines))
				for i, l := range lines {
					cells[i] = []string{l.Task, validate.FormatNumber(l.Budget), validate.FormatNumber(l.Cost)}
				}
				fmt.Fprintln(out, ui.H2.Render("Budget vs actuals"))
				fmt.Fprintln(out, ui.Table([]string{"Task", "Budget", "Cost"}, cells, func(row int) bool {
					return lines[row].Cost > lines[row].Budget
				}))
			}

			if loads := schedule.ResourceLoad(rows); len(loads) > 0 {
				cells := make([][]string, len(loads))
				for i, l := range loads {
					cells[i] = []string{l.Assignee, validate.FormatNumber(l.Hours), strconv.Itoa(l.Rows)}
				}
				fmt.Fprintln(out, ui.H2.Render("Resource load"))
				fmt.Fprintln(out, ui.Table([]string{"Assignee", "Hours", "Rows"}, cells, nil))
			}

			if points := schedule.BurnDown(rows); len(points) > 0 {
				cells := make([][]string, len(points))
				for i, p := range points {
					cells[i] = []string{p.Date.String(), strconv.Itoa(p.Progress)}
				}
				fmt.Fprintln(out, ui.H2.Render("Burn-down"))
				fmt.Fprintln(out, ui.Table([]string{"End date", "Cumulative progress"}, cells, nil))
			}
			return nil
		},
	}
}

func pct(m schedule.Metric) string {
	if m.Available {
		return "%"
	}
	return ""
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List delayed rows, marking the ones that became late since the last check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			delayed := schedule.Delayed(ws.store.Snapshot(), a.today)
			table, err := overdue.NewTable(a.dir)
			if err != nil {
				return fmt.Errorf("load delayed-row table: %w", err)
			}
			report := table.Sweep(delayed, a.today)
			if err := table.Save(); err != nil {
				a.logger.Warn("could not save delayed-row table", "err", err)
			}

			out := cmd.OutOrStdout()
			if len(delayed) == 0 {
				fmt.Fprintln(out, ui.Good.Render("Nothing is delayed as of "+a.today.String()))
			} else {
				fresh := make(map[string]bool, len(report.New))
				for _, e := range report.New {
					fresh[e.Key] = true
				}
				cells := make([][]string, len(delayed))
				for i, d := range delayed {
					mark := ""
					if fresh[d.Task.Key()] {
						mark = "new"
					}
					cells[i] = []string{strconv.Itoa(d.Row + 1), d.Task.Label(), d.Task.End.String(), strconv.Itoa(d.DaysLate), string(d.Task.Status), mark}
				}
				fmt.Fprintln(out, ui.Heading(fmt.Sprintf("%d delayed rows as of %s", len(delayed), a.today)))
				fmt.Fprintln(out, ui.Table([]string{"#", "Row", "End", "Days late", "Status", ""}, cells, func(row int) bool {
					return fresh[delayed[row].Task.Key()]
				}))
			}
			for _, e := range report.Recovered {
				fmt.Fprintln(out, ui.Muted.Render("no longer delayed: "+e.Label))
			}
			return nil
		},
	}
}

func newKanbanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kanban",
		Short: "Show rows grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			b := schedule.Kanban(ws.store.Snapshot())
			columns := [][]model.Task{b.ToDo, b.InProgress, b.Done}
			height := 0
			for _, c := range columns {
				height = max(height, len(c))
			}
			cells := make([][]string, height)
			for i := range cells {
				cells[i] = make([]string, len(columns))
				for j, c := range columns {
					if i < len(c) {
						cells[i][j] = c[i].Label()
					}
				}
			}
			headers := []string{
				fmt.Sprintf("To Do (%d)", len(b.ToDo)),
				fmt.Sprintf("In Progress (%d)", len(b.InProgress)),
				fmt.Sprintf("Done (%d)", len(b.Done)),
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Table(headers, cells, nil))
			return nil
		},
	}
}
