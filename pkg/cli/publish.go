package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/taskplan/pkg/auth"
	"github.com/harrisonrobin/taskplan/pkg/colors"
	"github.com/harrisonrobin/taskplan/pkg/google"
	"github.com/harrisonrobin/taskplan/pkg/index"
	"github.com/harrisonrobin/taskplan/pkg/ui"
)

// detachedArgs rebuilds the publish command line for the background child.
func (a *app) detachedArgs(calendarName string) []string {
	args := []string{"publish", "--calendar", calendarName, "--today", a.today.ISO()}
	if a.logLevel != "" {
		args = append(args, "--log-level", a.logLevel)
	}
	return args
}

func newPublishCmd(a *app) *cobra.Command {
	var calendarName string
	var detach bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish scheduled rows to Google Calendar as all-day events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.cfg.Calendar
			if calendarName != "" {
				name = calendarName
			}

			if detach {
				self, err := os.Executable()
				if err != nil {
					return fmt.Errorf("could not find self: %w", err)
				}
				bg := exec.Command(self, a.detachedArgs(name)...)
				if err := bg.Start(); err != nil {
					return fmt.Errorf("could not start background publish: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Publishing to %q in the background (pid %d)\n", name, bg.Process.Pid)
				return bg.Process.Release()
			}

			ctx := cmd.Context()
			ws, err := a.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.close()

			idx, err := index.NewEventIndex(a.dir)
			if err != nil {
				a.logger.Warn("failed to load event index, starting empty", "err", err)
				idx = nil
			}
			cache, err := colors.NewColorCache(a.dir)
			if err != nil {
				a.logger.Warn("failed to load color cache, using default colors", "err", err)
				cache = nil
			}

			client, err := google.NewClient(ctx, a.dir, name, idx, cache, a.logger)
			if err != nil {
				return err
			}
			res, pubErr := client.Publish(ctx, ws.store.Snapshot(), a.today)

			if idx != nil {
				if err := idx.Save(); err != nil {
					a.logger.Warn("failed to save event index", "err", err)
				}
			}
			if cache != nil {
				if err := cache.Save(); err != nil {
					a.logger.Warn("failed to save color cache", "err", err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf(
				"%s: %d created, %d updated, %d unchanged, %d removed, %d unscheduled",
				name, res.Created, res.Updated, res.Unchanged, res.Removed, res.Skipped)))
			return pubErr
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Calendar name (overrides config)")
	cmd.Flags().BoolVar(&detach, "detach", false, "Publish from a background process and return immediately")
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access, replacing any cached token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenFile := filepath.Join(a.dir, auth.TokenFile)
			if err := os.Remove(tokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("could not delete token file '%s': %w, please delete it manually", tokenFile, err)
			}

			if _, err := auth.GetClient(cmd.Context(), a.dir, auth.Scopes, a.logger); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Authentication successful, token saved to "+tokenFile))
			return nil
		},
	}
}
