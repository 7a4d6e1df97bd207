package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/editor"
	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/internal/util"
	"github.com/mithrel/mriynyk/pkg/api"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Send and list notes delivered to students",
	}
	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageListCmd())
	cmd.AddCommand(newMessageShowCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var m api.Message
	var quizPath string
	var edit bool
	cmd := &cobra.Command{
		Use:   "send [file|-]",
		Short: "Store a note for a student",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if m.Subject == "" {
				m.Subject = app.Cfg.GetString("answer.subject")
			}
			if edit {
				if err := editMessage(cmd, args, &m); err != nil {
					return err
				}
			} else {
				text, _, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				m.Output = text
			}
			if quizPath != "" {
				b, err := os.ReadFile(quizPath)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(b, &m.Quiz); err != nil {
					return fmt.Errorf("parse quiz %s: %w", quizPath, err)
				}
			}
			sent, err := app.Notes.Send(cmd.Context(), m)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sent.ID, sent.StudentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&m.StudentID, "student", "", "student id (required unless set in --edit)")
	cmd.Flags().StringVar(&m.Topic, "topic", "", "topic of the note")
	cmd.Flags().StringVar(&m.Subject, "subject", "", "subject (default answer.subject)")
	cmd.Flags().StringVar(&quizPath, "quiz", "", "JSON file with quiz questions [{text, options}]")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "compose the note in $EDITOR (file arg seeds the body)")
	registerStudentCompletion(cmd)
	return cmd
}

// editMessage opens the draft for m in the user's editor. A file argument
// seeds the body.
func editMessage(cmd *cobra.Command, args []string, m *api.Message) error {
	var body string
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		body = string(b)
	}
	d, err := editor.Edit(api.NewID(), editor.Draft{
		Student: m.StudentID,
		Topic:   m.Topic,
		Subject: m.Subject,
		Body:    body,
	})
	if err != nil {
		return err
	}
	m.StudentID, m.Topic, m.Subject, m.Output = d.Student, d.Topic, d.Subject, d.Body
	return nil
}

var messageListModes = []string{"plain", "pretty", "json", "ndjson"}

func newMessageListCmd() *cobra.Command {
	var student, since, until, outputMode string
	var limit int
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a student's messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, messageListModes...)
			if err != nil {
				return err
			}
			from, to, err := util.TimeRange(since, until, time.Now())
			if err != nil {
				return err
			}
			msgs, err := app.Notes.Messages(cmd.Context(), student, limit)
			if err != nil {
				return err
			}
			kept := msgs[:0]
			for _, m := range msgs {
				if util.InRange(m.CreatedAt, from, to) {
					kept = append(kept, m)
				}
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			opts.Headers = !noHeaders
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderMessages(cmd.Context(), w, kept, opts)
			})
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student id (required)")
	cmd.Flags().StringVar(&since, "since", "", "only messages after: 2h, 3d, 1w, 1mo, or a date")
	cmd.Flags().StringVar(&until, "until", "", "only messages before: same forms as --since")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum messages (0 = all kept)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(messageListModes, "|"))
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	_ = cmd.MarkFlagRequired("student")
	registerOutputCompletion(cmd, messageListModes...)
	registerStudentCompletion(cmd)
	return cmd
}

var messageShowModes = []string{"pretty", "plain", "html", "json"}

func newMessageShowCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, messageShowModes...)
			if err != nil {
				return err
			}
			m, err := app.Notes.Message(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("message %s: %w", args[0], err)
			}
			if mode == present.ModeJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				if mode == present.ModePretty {
					return present.RenderMessages(cmd.Context(), w, []api.Message{m}, opts)
				}
				return present.RenderNote(cmd.Context(), w, m.Output, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "pretty", "output mode: "+strings.Join(messageShowModes, "|"))
	registerOutputCompletion(cmd, messageShowModes...)
	return cmd
}
