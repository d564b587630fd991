package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/depgraph"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/tabular"
	"github.com/harrisonrobin/taskplan/pkg/ui"
	"github.com/harrisonrobin/taskplan/pkg/validate"
)

func newImportCmd(a *app) *cobra.Command {
	var appendRows bool

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Replace the table with the rows of a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := tabular.Ingest(args[0])
			if err != nil {
				return err
			}

			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			if appendRows {
				ws.store.Append(res.Tasks...)
			} else {
				ws.store.Replace(res.Tasks)
			}
			if err := ws.save(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reportBatch(out, res)
			printWarnings(out, depgraph.Build(ws.store.Snapshot()).Warnings())
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("Imported %d of %d rows from %s", len(res.Tasks), len(res.Tasks)+len(res.Rejected), args[0])))
			return nil
		},
	}
	cmd.Flags().BoolVar(&appendRows, "append", false, "Append to the table instead of replacing it")
	return cmd
}

func reportBatch(out io.Writer, res validate.Result) {
	for _, fe := range res.Rejected {
		fmt.Fprintln(out, ui.Bad.Render("✗ rejected ")+fe.Error())
	}
	printWarnings(out, res.Warnings)
}

func printWarnings(out io.Writer, warnings []model.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(out, ui.Warning(w))
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.csv|file.xlsx>",
		Short: "Write the table to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer ws.close()

			if err := tabular.Export(args[0], ws.store.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", ws.store.Len(), args[0])
			return nil
		},
	}
}

func newTemplateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "template <file.csv|file.xlsx>",
		Short: "Write an empty table with the expected header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tabular.Export(args[0], nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", args[0])
			return nil
		},
	}
}
