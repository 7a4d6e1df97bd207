package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mriynyk/internal/present"
	"github.com/mithrel/mriynyk/internal/students"
	"github.com/mithrel/mriynyk/internal/util"
)

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "student",
		Aliases: []string{"students"},
		Short:   "Attendance and scores from the student data API",
	}
	cmd.PersistentFlags().Int("grade", 0, "grade to show (overrides students.grade; 0 = all)")
	cmd.AddCommand(newStudentListCmd())
	cmd.AddCommand(newStudentShowCmd())
	cmd.AddCommand(newStudentOverviewCmd())
	return cmd
}

// studentGrade applies --grade over students.grade.
func studentGrade(cmd *cobra.Command) int {
	app := getApp(cmd)
	applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{"grade": "students.grade"})
	return app.Cfg.GetInt("students.grade")
}

var studentListModes = []string{"plain", "json"}

func newStudentListCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, studentListModes...)
			if err != nil {
				return err
			}
			list, err := app.Students.Students(cmd.Context(), studentGrade(cmd))
			if err != nil {
				return err
			}
			if len(list) == 0 && mode == present.ModePlain {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No students.")
				return nil
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			opts.Headers = !noHeaders
			return present.RenderStudents(cmd.OutOrStdout(), list, opts)
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(studentListModes, "|"))
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	registerOutputCompletion(cmd, studentListModes...)
	return cmd
}

var studentReportModes = []string{"plain", "pretty", "json"}

func newStudentShowCmd() *cobra.Command {
	var outputMode, subject string
	var day int
	cmd := &cobra.Command{
		Use:   "show <student-id>",
		Short: "Show one student's absences, scores and trend",
		Long: "Summarize one student: recent absences and average over students.recent_days,\n" +
			"the score trend, the scores of one day (--day 0 is the first listed day) and a status.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{"days": "students.recent_days"})
			mode, err := parseOutput(outputMode, studentReportModes...)
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}
			grade := studentGrade(cmd)
			student, err := app.Students.Student(cmd.Context(), id, grade)
			if err != nil {
				return err
			}
			data, err := app.Students.StudentData(cmd.Context(), id, students.Query{Grade: grade, Subject: subject})
			if err != nil {
				return err
			}
			days := app.Cfg.GetInt("students.recent_days")
			report := students.BuildReport(student, data, days, day)
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderReport(w, report, days, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(studentReportModes, "|"))
	cmd.Flags().StringVar(&subject, "subject", "", "only this subject (all = every subject)")
	cmd.Flags().IntVar(&day, "day", 0, "score day to list, 0 = first; out of range falls back to 0")
	cmd.Flags().Int("days", 0, "recent window in days (overrides students.recent_days)")
	registerOutputCompletion(cmd, studentReportModes...)
	cmd.ValidArgsFunction = completeStudentIDs
	return cmd
}

func newStudentOverviewCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Class averages and absences by subject, top and bottom students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, err := parseOutput(outputMode, studentReportModes...)
			if err != nil {
				return err
			}
			ov, err := app.Students.Overview(cmd.Context(), studentGrade(cmd))
			if err != nil {
				return err
			}
			opts := presentOptions(app, mode, cmd.OutOrStdout())
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderOverview(w, ov, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(studentReportModes, "|"))
	registerOutputCompletion(cmd, studentReportModes...)
	return cmd
}

// completeStudentIDs offers roster ids ranked by fuzzy match on their labels.
func completeStudentIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	app, err := loadApp(cmd.Context(), cfgPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer app.Close()
	list, err := app.Students.Students(cmd.Context(), app.Cfg.GetInt("students.grade"))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	if _, err := strconv.Atoi(toComplete); err == nil {
		for _, s := range list {
			if id := strconv.Itoa(s.ID); strings.HasPrefix(id, toComplete) {
				out = append(out, id+"\t"+s.Label)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
	byLabel := map[string]string{}
	labels := make([]string, 0, len(list))
	for _, s := range list {
		byLabel[s.Label] = strconv.Itoa(s.ID)
		labels = append(labels, s.Label)
	}
	for _, l := range util.ScoreCompletions(toComplete, labels, 20) {
		out = append(out, byLabel[l]+"\t"+l)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
