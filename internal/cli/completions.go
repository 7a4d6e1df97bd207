package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/util"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion bash|zsh|fish",
		Short:     "Generate shell completion scripts",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}

// registerStudentCompletion completes --student with fuzzy-ranked student ids.
// Flag completion runs without PersistentPreRunE, so the app is built here.
func registerStudentCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("student", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfgPath, _ := cmd.Flags().GetString("config")
		app, err := loadApp(cmd.Context(), cfgPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer app.Close()
		students, err := app.Notes.Students(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return util.ScoreCompletions(toComplete, students, 20), cobra.ShellCompDirectiveNoFileComp
	})
}

func registerOutputCompletion(cmd *cobra.Command, modes ...string) {
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
}
