// Package cli wires the taskplan commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/config"
	"github.com/harrisonrobin/taskplan/pkg/logging"
	"github.com/harrisonrobin/taskplan/pkg/model"
	"github.com/harrisonrobin/taskplan/pkg/ui"
)

const Version = "0.3.0"

// app carries what every command needs once flags are parsed.
type app struct {
	dir    string
	cfg    *config.Config
	logger *slog.Logger
	today  model.Date

	todayFlag string
	logLevel  string
}

func (a *app) init(cmd *cobra.Command) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("could not find configuration directory: %w", err)
	}
	cfg, err := config.LoadFrom(config.PathIn(dir))
	if err != nil {
		return err
	}
	a.dir, a.cfg = dir, cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(level),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})

	a.today = model.DateOf(time.Now())
	if a.todayFlag != "" {
		d, err := model.ParseAnyDate(a.todayFlag)
		if err != nil || d.IsZero() {
			return fmt.Errorf("invalid --today %q: use YYYY-MM-DD or MM/DD/YYYY", a.todayFlag)
		}
		a.today = d
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "taskplan",
		Short:         "Plan, track and publish a project task table",
		Long:          "taskplan keeps a table of tasks and subtasks with dates, owners, budgets and dependencies, and derives schedule, cost and dependency views from it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&a.todayFlag, "today", "", "Reference date for delay checks (YYYY-MM-DD or MM/DD/YYYY)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		newImportCmd(a),
		newExportCmd(a),
		newTemplateCmd(a),
		newListCmd(a),
		newAddSubtaskCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newRecurCmd(a),
		newGraphCmd(a),
		newReportCmd(a),
		newCheckCmd(a),
		newKanbanCmd(a),
		newPublishCmd(a),
		newAuthCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newSeedCmd(a),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
