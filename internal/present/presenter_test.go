package present

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/internal/reader"
	"github.com/mithrel/mriynyk/internal/students"
	"github.com/mithrel/mriynyk/pkg/api"
)

const note = "# Title\n\nSome **bold** text.\n\n- one\n- two"

func TestParseMode(t *testing.T) {
	for _, s := range []string{"plain", "pretty", "json", "ndjson", "html", "tui"} {
		_, ok := ParseMode(s)
		assert.True(t, ok, s)
	}
	m, ok := ParseMode("xml")
	assert.False(t, ok)
	assert.Equal(t, ModePlain, m)
}

func TestRenderNoteHTML(t *testing.T) {
	var buf bytes.Buffer
	err := RenderNote(context.Background(), &buf, note, Options{Mode: ModeHTML, Reader: reader.DefaultOptions()})
	require.NoError(t, err)
	assert.Equal(t,
		"<h1>Title</h1>\n<p>Some <strong>bold</strong> text.</p>\n<ul><li>one</li><li>two</li></ul>\n",
		buf.String())
}

func TestRenderNoteJSON(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Mode: ModeJSON, Reader: reader.DefaultOptions()}
	require.NoError(t, RenderNote(context.Background(), &buf, note, opts))

	var got api.RenderResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Blocks, 3)
	require.Len(t, got.Pages, 1)
	assert.Contains(t, got.Pages[0], `<hr class="block-break">`)
}

func TestRenderNotePlainPages(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Mode: ModePlain, Pages: true, Reader: reader.Options{MinPageChars: 5}}
	require.NoError(t, RenderNote(context.Background(), &buf, note, opts))
	out := buf.String()
	assert.Contains(t, out, "--- page 1/3")
	assert.Contains(t, out, "Some bold text.")
	assert.NotContains(t, out, "<strong>")
}

func TestRenderNoteNDJSONBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderNote(context.Background(), &buf, note, Options{Mode: ModeNDJSON}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"kind":"heading"`)
}

func TestRenderMessages(t *testing.T) {
	msgs := []api.Message{{
		ID:        "m1",
		StudentID: "s1",
		Topic:     "Fractions",
		Subject:   "math",
		Quiz:      []api.QuizQuestion{{Text: "q", Options: []string{"a", "b"}}},
		CreatedAt: time.UnixMilli(1000),
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderMessages(context.Background(), &buf, msgs, Options{Mode: ModePlain, Headers: true}))
	assert.Contains(t, buf.String(), "id")
	assert.Contains(t, buf.String(), "Fractions")
	assert.Contains(t, buf.String(), "1000")

	buf.Reset()
	require.NoError(t, RenderMessages(context.Background(), &buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())

	err := RenderMessages(context.Background(), &buf, msgs, Options{Mode: ModeHTML})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func score(v float64) *float64 { return &v }

func sampleReport() students.Report {
	return students.BuildReport(api.Student{ID: 7, Label: "Olena"}, api.StudentData{
		Absences: []api.Absence{{Date: "2024-03-20", Subject: "Algebra", Reason: "ill"}},
		Scores: []api.Score{
			{Date: "2024-03-20", Subject: "Algebra", Score: score(10)},
			{Date: "2024-03-19", Subject: "History", Score: score(10)},
			{Date: "2024-03-18", Subject: "Algebra", Score: score(8)},
			{Date: "2024-03-17", Subject: "Algebra", Score: score(8)},
		},
	}, 30, 0)
}

func TestRenderReportPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, sampleReport(), 30, Options{Mode: ModePlain}))
	out := buf.String()
	assert.Contains(t, out, "Olena (#7)")
	assert.Contains(t, out, "status:")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "+25%")
	assert.Contains(t, out, "scores on 2024-03-20 (day 1/4, older: true, newer: false)")
	assert.Contains(t, out, "ill")
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, sampleReport(), 30, Options{Mode: ModeJSON}))
	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 25.0, got["trend"])
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, "2024-03-20", got["selected_date"])
}

func TestRenderOverviewPlain(t *testing.T) {
	ov := api.Overview{
		AverageScores:     []api.SubjectAverage{{Subject: "History", Average: 6}, {Subject: "Algebra", Average: 12}},
		AbsencesBySubject: []api.SubjectCount{{Subject: "History", Count: 2}},
		TopStudents:       []api.StudentAverage{{StudentID: 1, Label: "Olena", Average: 11.25}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderOverview(&buf, ov, Options{Mode: ModePlain}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "Algebra"), strings.Index(out, "History"), "sorted by average")
	assert.Contains(t, out, strings.Repeat("█", 20)+"  12.0")
	assert.Contains(t, out, strings.Repeat("█", 10)+strings.Repeat("░", 10)+"  6.0")
	assert.Contains(t, out, "Olena")
	assert.Contains(t, out, "bottom students\n  none")
}

func TestRenderStudents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStudents(&buf, []api.Student{{ID: 3, Label: "Taras"}}, Options{Mode: ModePlain, Headers: true}))
	assert.Equal(t, "id  label\n3   Taras\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderStudents(&buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())

	assert.ErrorIs(t, RenderStudents(&buf, nil, Options{Mode: ModeHTML}), ErrUnsupported)
}
