package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/present"
)

var activityModes = []string{"plain", "json"}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show or clear the activity log",
	}
	cmd.AddCommand(newActivityListCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp(cmd).Notes.ClearActivity(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Activity cleared.")
			return nil
		},
	})
	return cmd
}

func newActivityListCmd() *cobra.Command {
	var limit int
	var all bool
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, activityModes...)
			if err != nil {
				return err
			}
			if all {
				limit = -1
			}
			items, err := app.Notes.Activity(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 && mode == present.ModePlain {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No activity yet.")
				return nil
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			opts.Headers = !noHeaders
			return present.RenderActivity(cmd.OutOrStdout(), items, opts)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "entries to show (0 uses activity.show)")
	cmd.Flags().BoolVar(&all, "all", false, "show every kept entry")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(activityModes, "|"))
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputCompletion(cmd, activityModes...)
	return cmd
}
