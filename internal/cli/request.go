package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/pkg/api"
)

var requestModes = []string{"pretty", "plain", "html", "json"}

func newRequestCmd() *cobra.Command {
	var req api.AnswerRequest
	var outputMode string
	var send bool
	var student string
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Generate a note for a topic via the answer service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, requestModes...)
			if err != nil {
				return err
			}
			if send && strings.TrimSpace(student) == "" {
				return errors.New("--send requires --student")
			}
			resp, err := app.Notes.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if mode == present.ModeJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(resp); err != nil {
					return err
				}
			} else {
				opts := presentOptions(app, mode, cmd.OutOrStdout())
				err := withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return present.RenderNote(cmd.Context(), w, resp.Result, opts)
				})
				if err != nil {
					return err
				}
			}

			if !send {
				return nil
			}
			subject := req.Subject
			if subject == "" {
				subject = app.Cfg.GetString("answer.subject")
			}
			m, err := app.Notes.Send(cmd.Context(), api.Message{
				StudentID: student,
				Topic:     strings.TrimSpace(req.Topic),
				Subject:   subject,
				Output:    resp.Result,
				Quiz:      resp.QuizQuestions,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Sent %s to %s\n", m.ID, m.StudentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Topic, "topic", "", "topic to explain (required)")
	cmd.Flags().StringVar(&req.StudentInfo, "info", "", "free-form notes about the student")
	cmd.Flags().StringVar(&req.Subject, "subject", "", "subject (default answer.subject)")
	cmd.Flags().IntVar(&req.Year, "year", 0, "school year (default answer.year)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "pretty", "output mode: "+strings.Join(requestModes, "|"))
	cmd.Flags().BoolVar(&send, "send", false, "store the generated note for --student")
	cmd.Flags().StringVar(&student, "student", "", "student id receiving the note")
	_ = cmd.MarkFlagRequired("topic")
	registerOutputCompletion(cmd, requestModes...)
	registerStudentCompletion(cmd)
	return cmd
}
