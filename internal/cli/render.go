package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/config"
	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/internal/wire"
)

// parseOutput resolves --output, rejecting modes the command does not offer.
func parseOutput(s string, allowed ...string) (present.Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range allowed {
		if s == a {
			mode, _ := present.ParseMode(s)
			return mode, nil
		}
	}
	return 0, fmt.Errorf("invalid --output: %s (want %s)", s, strings.Join(allowed, "|"))
}

// presentOptions fills the config-derived part of present.Options.
func presentOptions(app *wire.App, mode present.Mode, out io.Writer) present.Options {
	wrap := app.Cfg.GetInt("render.wrap")
	if w := terminalWidth(out); w > 0 && (wrap == 0 || w < wrap) {
		wrap = w
	}
	return present.Options{
		Mode:       mode,
		Headers:    true,
		Wrap:       wrap,
		Style:      app.Cfg.GetString("render.style"),
		Reader:     config.ReaderOptions(app.Cfg),
		WheelDelta: app.Cfg.GetFloat64("reader.wheel_delta"),
	}
}

var errWatchNeedsFile = errors.New("--watch needs a file argument")

var renderModes = []string{"html", "json", "ndjson", "plain", "pretty"}

func newRenderCmd() *cobra.Command {
	var outputMode string
	var pages bool
	var indent bool
	var watch bool
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render a note into blocks or pages",
		Long: "Render Markdown note text (a file, or stdin) with the block parser.\n" +
			"--pages groups the output by page using reader.min_page_chars or --min-chars.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{"min-chars": "reader.min_page_chars"})
			mode, err := parseOutput(outputMode, renderModes...)
			if err != nil {
				return err
			}
			if watch && (len(args) == 0 || args[0] == "-") {
				return errWatchNeedsFile
			}
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			opts.Pages = pages
			opts.JSONIndent = indent
			if !watch {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return present.RenderNote(cmd.Context(), w, text, opts)
				})
			}
			out := cmd.OutOrStdout()
			if err := present.RenderNote(cmd.Context(), out, text, opts); err != nil {
				return err
			}
			return watchFile(cmd.Context(), args[0], watchDebounce, func() error {
				text, _, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				app.Log.Printf("render: %s changed, re-rendering", args[0])
				return present.RenderNote(cmd.Context(), out, text, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "html", "output mode: "+strings.Join(renderModes, "|"))
	cmd.Flags().BoolVar(&pages, "pages", false, "group output by page")
	cmd.Flags().Int("min-chars", 0, "minimum visible characters per page (overrides reader.min_page_chars)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the file changes")
	registerOutputCompletion(cmd, renderModes...)
	return cmd
}
