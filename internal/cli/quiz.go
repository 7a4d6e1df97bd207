package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/internal/present/format"
	"github.com/mithrel/mriynyk/pkg/api"
)

var quizModes = []string{"plain", "json"}

func newQuizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Inspect quiz questions attached to messages",
	}
	cmd.AddCommand(newQuizShowCmd())
	return cmd
}

func newQuizShowCmd() *cobra.Command {
	var answers bool
	var outputMode string
	cmd := &cobra.Command{
		Use:   "show <message-id>",
		Short: "Show the quiz of a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, quizModes...)
			if err != nil {
				return err
			}
			m, err := app.Notes.Message(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("message %s: %w", args[0], err)
			}
			if mode == present.ModeJSON {
				qs := m.Quiz
				if qs == nil {
					qs = []api.QuizQuestion{}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(qs)
			}
			if len(m.Quiz) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No quiz for this message.")
				return nil
			}
			return format.WritePlainQuiz(cmd.OutOrStdout(), m.Quiz, answers)
		},
	}
	cmd.Flags().BoolVar(&answers, "answers", false, "mark the correct option")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(quizModes, "|"))
	registerOutputCompletion(cmd, quizModes...)
	return cmd
}
