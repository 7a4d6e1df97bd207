package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/internal/reader"
)

var errNoTerminal = errors.New("read needs an interactive terminal; use `render` for piped output")

func newReadCmd() *cobra.Command {
	var modeName string
	var rsvp bool
	var messageID string
	var student string
	cmd := &cobra.Command{
		Use:   "read [file|-]",
		Short: "Open a note in the interactive reader",
		Long: "Open a note in the terminal reader. Keys: 1/2/3 switch full, single and feed views,\n" +
			"left/right turn pages, the wheel turns feed pages, r toggles RSVP, q quits.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{
				"min-chars": "reader.min_page_chars",
				"tick":      "reader.rsvp_tick",
			})
			if modeName == "" {
				modeName = app.Cfg.GetString("reader.default_mode")
			}
			mode, ok := reader.ParseMode(modeName)
			if !ok {
				return fmt.Errorf("invalid --mode: %s (want full|single|feed)", modeName)
			}

			var text, title string
			switch {
			case messageID != "":
				m, err := app.Notes.Message(cmd.Context(), messageID)
				if err != nil {
					return fmt.Errorf("message %s: %w", messageID, err)
				}
				text, title = m.Output, m.Topic
			case student != "":
				msgs, err := app.Notes.Messages(cmd.Context(), student, 1)
				if err != nil {
					return err
				}
				if len(msgs) == 0 {
					return fmt.Errorf("no messages for student %s", student)
				}
				text, title = msgs[0].Output, msgs[0].Topic
			default:
				var err error
				if text, title, err = readInput(cmd, args); err != nil {
					return err
				}
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return errNoTerminal
			}
			opts := presentOptions(app, present.ModeTUI, cmd.OutOrStdout())
			opts.Title = title
			opts.ReaderMode = mode
			opts.RSVP = rsvp
			return present.RenderNote(cmd.Context(), cmd.OutOrStdout(), text, opts)
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "", "initial view: full|single|feed (default reader.default_mode)")
	cmd.Flags().BoolVar(&rsvp, "rsvp", false, "start with the RSVP highlighter running")
	cmd.Flags().StringVar(&messageID, "message", "", "read a stored message by id")
	cmd.Flags().StringVar(&student, "student", "", "read the newest message of a student")
	cmd.Flags().Int("min-chars", 0, "minimum visible characters per page (overrides reader.min_page_chars)")
	cmd.Flags().Duration("tick", 0, "RSVP interval (overrides reader.rsvp_tick)")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"full", "single", "feed"}, cobra.ShellCompDirectiveNoFileComp
	})
	registerStudentCompletion(cmd)
	return cmd
}
