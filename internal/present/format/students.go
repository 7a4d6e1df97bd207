package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/mriynyk/internal/students"
	"github.com/mithrel/mriynyk/pkg/api"
)

// BarWidth is the cell width of a full bar in plain overview charts.
const BarWidth = 20

const noValue = "n/a"

// WriteJSON encodes any value, optionally indented.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// FormatTrend renders a trend percentage with an explicit sign.
func FormatTrend(r students.Report) string {
	if !r.HasTrend {
		return noValue
	}
	if r.Trend >= 0 {
		return "+" + strconv.Itoa(r.Trend) + "%"
	}
	return strconv.Itoa(r.Trend) + "%"
}

func formatAverage(v float64, ok bool) string {
	if !ok {
		return noValue
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatScore(s api.Score) string {
	if s.Score == nil {
		return noValue
	}
	return strconv.FormatFloat(*s.Score, 'f', -1, 64)
}

func orNoValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return noValue
	}
	return s
}

func WritePlainStudents(w io.Writer, list []api.Student, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, "id\tlabel\n")
	}
	for _, s := range list {
		_, _ = fmt.Fprintf(tw, "%d\t%s\n", s.ID, esc(s.Label))
	}
	return tw.Flush()
}

// WritePlainReport prints the class and personal figures for one student.
func WritePlainReport(w io.Writer, r students.Report, days int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (#%d)\n", r.Student.Label, r.Student.ID)
	fmt.Fprintf(tw, "status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "absences:\t%d\n", r.Absences)
	fmt.Fprintf(tw, "average:\t%s\n", formatAverage(r.Average, r.HasAverage))
	fmt.Fprintf(tw, "last %d days:\t%d absences, average %s\n", days, len(r.RecentAbsences), formatAverage(r.RecentAverage, r.HasRecentAverage))
	fmt.Fprintf(tw, "trend:\t%s\n", FormatTrend(r))
	if err := tw.Flush(); err != nil {
		return err
	}

	if r.SelectedDate == "" {
		_, _ = io.WriteString(w, "\nno scores\n")
	} else {
		fmt.Fprintf(w, "\nscores on %s (day %d/%d, older: %t, newer: %t)\n",
			r.SelectedDate, r.Dates.Index+1, len(r.Dates.Dates), r.Dates.CanOlder(), r.Dates.CanNewer())
		for _, s := range r.DayScores {
			fmt.Fprintf(tw, "  %s\t%s\n", orNoValue(s.Subject), formatScore(s))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.RecentAbsences) == 0 {
		_, err := io.WriteString(w, "\nno recent absences\n")
		return err
	}
	_, _ = io.WriteString(w, "\nrecent absences\n")
	for _, a := range r.RecentAbsences {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", orNoValue(a.Date), orNoValue(a.Subject), orNoValue(a.Reason))
	}
	return tw.Flush()
}

func bar(percent int) string {
	filled := percent * BarWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", BarWidth-filled)
}

// WritePlainOverview prints both charts sorted from highest to lowest and the
// top and bottom students.
func WritePlainOverview(w io.Writer, o api.Overview) error {
	o = students.SortOverview(o)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = io.WriteString(tw, "average score by subject\n")
	if len(o.AverageScores) == 0 {
		_, _ = io.WriteString(tw, "  no data\n")
	}
	for _, a := range o.AverageScores {
		p := students.BarPercent(a.Average, students.MaxScore, nil)
		fmt.Fprintf(tw, "  %s\t%s\t%.1f\n", a.Subject, bar(p), a.Average)
	}

	_, _ = io.WriteString(tw, "\nabsences by subject\n")
	if len(o.AbsencesBySubject) == 0 {
		_, _ = io.WriteString(tw, "  no data\n")
	}
	counts := make([]float64, len(o.AbsencesBySubject))
	for i, c := range o.AbsencesBySubject {
		counts[i] = float64(c.Count)
	}
	for _, c := range o.AbsencesBySubject {
		p := students.BarPercent(float64(c.Count), 0, counts)
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", c.Subject, bar(p), c.Count)
	}

	for _, group := range []struct {
		title string
		list  []api.StudentAverage
	}{{"top students", o.TopStudents}, {"bottom students", o.BottomStudents}} {
		fmt.Fprintf(tw, "\n%s\n", group.title)
		if len(group.list) == 0 {
			_, _ = io.WriteString(tw, "  none\n")
		}
		for _, s := range group.list {
			fmt.Fprintf(tw, "  %s\t%.1f\n", s.Label, s.Average)
		}
	}
	return tw.Flush()
}

// WritePrettyReport renders the report as Markdown through glamour.
func WritePrettyReport(w io.Writer, r students.Report, days int, style string, width int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Student.Label)
	fmt.Fprintf(&b, "| status | absences | average | last %d days | trend |\n|---|---|---|---|---|\n", days)
	fmt.Fprintf(&b, "| %s | %d | %s | %d absences, avg %s | %s |\n\n",
		r.Status, r.Absences, formatAverage(r.Average, r.HasAverage),
		len(r.RecentAbsences), formatAverage(r.RecentAverage, r.HasRecentAverage), FormatTrend(r))
	if r.SelectedDate != "" {
		fmt.Fprintf(&b, "## Scores on %s\n\n| subject | score |\n|---|---|\n", r.SelectedDate)
		for _, s := range r.DayScores {
			fmt.Fprintf(&b, "| %s | %s |\n", orNoValue(s.Subject), formatScore(s))
		}
		b.WriteString("\n")
	}
	b.WriteString("## Recent absences\n\n")
	if len(r.RecentAbsences) == 0 {
		b.WriteString("None.\n")
	}
	for _, a := range r.RecentAbsences {
		fmt.Fprintf(&b, "- **%s** %s: %s\n", orNoValue(a.Date), orNoValue(a.Subject), orNoValue(a.Reason))
	}
	return WritePrettyMarkdown(w, b.String(), style, width)
}

// WritePrettyOverview renders the overview as Markdown tables through glamour.
func WritePrettyOverview(w io.Writer, o api.Overview, style string, width int) error {
	o = students.SortOverview(o)
	var b strings.Builder
	b.WriteString("# Overview\n\n## Average score by subject\n\n| subject | average |\n|---|---|\n")
	for _, a := range o.AverageScores {
		fmt.Fprintf(&b, "| %s | %.1f |\n", a.Subject, a.Average)
	}
	b.WriteString("\n## Absences by subject\n\n| subject | absences |\n|---|---|\n")
	for _, c := range o.AbsencesBySubject {
		fmt.Fprintf(&b, "| %s | %d |\n", c.Subject, c.Count)
	}
	for _, group := range []struct {
		title string
		list  []api.StudentAverage
	}{{"Top students", o.TopStudents}, {"Bottom students", o.BottomStudents}} {
		fmt.Fprintf(&b, "\n## %s\n\n", group.title)
		if len(group.list) == 0 {
			b.WriteString("None.\n")
		}
		for _, s := range group.list {
			fmt.Fprintf(&b, "- %s: %.1f\n", s.Label, s.Average)
		}
	}
	return WritePrettyMarkdown(w, b.String(), style, width)
}
