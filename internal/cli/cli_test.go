package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/internal/config"
	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/pkg/api"
)

const sampleNote = "# Fractions\n\nA fraction is **part** of a whole.\n\n1. Numerator\n2. Denominator"

// writeConfigTOML writes an isolated config and returns its path.
func writeConfigTOML(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "share"))
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(filepath.Join(dir, "data"), "\\", "\\\\") + `"
` + extra
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

// run executes the root command in-process.
func run(t *testing.T, cfg, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRenderHTMLFromStdin(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	out, _, err := run(t, cfg, sampleNote, "render")
	require.NoError(t, err)
	assert.Equal(t,
		"<h1>Fractions</h1>\n<p>A fraction is <strong>part</strong> of a whole.</p>\n<ol><li>Numerator</li><li>Denominator</li></ol>\n",
		out)
}

func TestRenderFromFileWithPages(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleNote), 0o600))

	out, _, err := run(t, cfg, "", "render", path, "--output", "json", "--min-chars", "10")
	require.NoError(t, err)
	var res api.RenderResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Blocks, 3)
	assert.Len(t, res.Pages, 2)

	out, _, err = run(t, cfg, "", "render", path, "--output", "plain", "--pages")
	require.NoError(t, err)
	assert.Contains(t, out, "--- page 1/1")
	assert.Contains(t, out, "Numerator Denominator")
}

func TestRenderRejectsBadOutputAndEmptyInput(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	_, _, err := run(t, cfg, sampleNote, "render", "--output", "tui")
	assert.ErrorContains(t, err, "invalid --output")

	_, _, err = run(t, cfg, "   ", "render")
	assert.ErrorIs(t, err, errNoInput)
}

func TestReadNeedsTerminal(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	_, _, err := run(t, cfg, sampleNote, "read", "--mode", "single")
	assert.ErrorIs(t, err, errNoTerminal)

	_, _, err = run(t, cfg, sampleNote, "read", "--mode", "scroll")
	assert.ErrorContains(t, err, "invalid --mode")
}

func TestMessageSendListShowAndQuiz(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	quiz := filepath.Join(t.TempDir(), "quiz.json")
	require.NoError(t, os.WriteFile(quiz, []byte(`[{"text":"Top number?","options":["Numerator","Denominator"]}]`), 0o600))

	out, _, err := run(t, cfg, sampleNote, "message", "send", "--student", "s1", "--topic", "Fractions", "--quiz", quiz)
	require.NoError(t, err)
	id, student, ok := strings.Cut(strings.TrimSpace(out), "\t")
	require.True(t, ok)
	assert.Equal(t, "s1", student)

	out, _, err = run(t, cfg, "", "message", "list", "--student", "s1", "--output", "json")
	require.NoError(t, err)
	var msgs []api.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].ID)
	assert.Equal(t, "math", msgs[0].Subject)

	out, _, err = run(t, cfg, "", "message", "list", "--student", "s1", "--since", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, _, err = run(t, cfg, "", "message", "show", id, "--output", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Fractions</h1>")

	out, _, err = run(t, cfg, "", "quiz", "show", id, "--answers")
	require.NoError(t, err)
	assert.Equal(t, "1. Top number?\n  * a) Numerator\n    b) Denominator\n", out)

	_, _, err = run(t, cfg, "", "quiz", "show", "missing")
	assert.ErrorContains(t, err, "not found")

	out, _, err = run(t, cfg, "", "activity", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "answer sent")
}

func TestRequestGeneratesAndSends(t *testing.T) {
	var got api.AnswerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(api.AnswerResponse{
			Result:        sampleNote,
			QuizQuestions: []api.QuizQuestion{{Text: "q", Options: []string{"a", "b"}}},
		})
	}))
	defer srv.Close()
	cfg := writeConfigTOML(t, "\n[answer]\nurl = \""+srv.URL+"\"\nyear = 2024\n")

	out, errOut, err := run(t, cfg, "", "request", "--topic", "Fractions", "--info", "grade 5", "--output", "html", "--send", "--student", "s9")
	require.NoError(t, err)
	assert.Equal(t, "Fractions", got.Topic)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "grade 5", got.StudentInfo)
	assert.Contains(t, out, "<h1>Fractions</h1>")
	assert.Contains(t, errOut, "to s9")

	out, _, err = run(t, cfg, "", "activity", "list", "--output", "json")
	require.NoError(t, err)
	var items []api.Activity
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "answer sent", items[0].Title)
	assert.Equal(t, "answer generated", items[1].Title)

	out, _, err = run(t, cfg, "", "activity", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	out, _, err = run(t, cfg, "", "activity", "list")
	require.NoError(t, err)
	assert.Equal(t, "No activity yet.\n", out)
}

func TestRequestValidation(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	_, _, err := run(t, cfg, "", "request", "--topic", "x", "--send")
	assert.ErrorContains(t, err, "--send requires --student")

	_, _, err = run(t, cfg, "", "request")
	assert.Error(t, err)
}

func TestInvalidConfigIsReported(t *testing.T) {
	cfg := writeConfigTOML(t, "\n[reader]\ndefault_mode = \"scroll\"\n")
	_, _, err := run(t, cfg, sampleNote, "render")
	assert.ErrorContains(t, err, "reader.default_mode")

	_, _, err = run(t, cfg, "", "config", "check")
	assert.ErrorContains(t, err, "reader.default_mode")
}

func TestConfigGenerateAndUpdate(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	target := filepath.Join(t.TempDir(), "gen", "config.toml")

	out, _, err := run(t, cfg, "", "config", "generate", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+target)
	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, config.RenderDefaultTOML(), string(b))

	_, _, err = run(t, cfg, "", "config", "generate", "-o", target)
	assert.ErrorContains(t, err, "already exists")

	out, _, err = run(t, cfg, "", "config", "generate", "-o", target, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")
}

func TestCompletionScripts(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	out, _, err := run(t, cfg, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "mriynyk-cli")

	_, _, err = run(t, cfg, "", "completion", "tcsh")
	assert.Error(t, err)
}

func TestMessageSendEdit(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i -e 's/^Student: $/Student: s7/'")
	path := filepath.Join(t.TempDir(), "draft.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleNote), 0o600))

	out, _, err := run(t, cfg, "", "message", "send", "--edit", "--topic", "Fractions", path)
	require.NoError(t, err)
	_, student, ok := strings.Cut(strings.TrimSpace(out), "\t")
	require.True(t, ok)
	assert.Equal(t, "s7", student)

	out, _, err = run(t, cfg, "", "message", "list", "--student", "s7", "--output", "json")
	require.NoError(t, err)
	var msgs []api.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "Fractions", msgs[0].Topic)
	assert.Equal(t, sampleNote, msgs[0].Output)
}

func TestMessageSendWithoutStudent(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	_, _, err := run(t, cfg, sampleNote, "message", "send")
	assert.ErrorIs(t, err, db.ErrInvalid)
}

func TestStudentCommands(t *testing.T) {
	var mu sync.Mutex
	var grades []string
	mux := http.NewServeMux()
	mux.HandleFunc("/students", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		grades = append(grades, r.URL.Query().Get("grade"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"id":5,"label":"Olena"}]`))
	})
	mux.HandleFunc("/students/5", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Algebra", r.URL.Query().Get("subject"))
		_, _ = w.Write([]byte(`{"absences":[{"date":"2024-03-10","subject":"Algebra","reason":"ill"}],
			"scores":[{"date":"2024-03-10","subject":"Algebra","score":10},
			{"date":"2024-03-09","subject":"Algebra","score":null},
			{"date":"2024-03-08","subject":"Algebra","score":6}]}`))
	})
	mux.HandleFunc("/overview", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"average_scores":[{"subject":"Algebra","average":8}],
			"absences_by_subject":[],"top_students":[{"student_id":5,"label":"Olena","average":8}],"bottom_students":[]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	cfg := writeConfigTOML(t, "\n[students]\nurl = \""+srv.URL+"\"\ngrade = 9\n")

	out, _, err := run(t, cfg, "", "student", "list")
	require.NoError(t, err)
	assert.Equal(t, "id  label\n5   Olena\n", out)

	out, _, err = run(t, cfg, "", "student", "show", "5", "--subject", "Algebra", "--day", "1", "-o", "json", "--grade", "8")
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "2024-03-08", report["selected_date"])
	assert.Equal(t, "active", report["status"])
	assert.Equal(t, false, report["has_trend"])
	assert.Equal(t, 8.0, report["average"])
	mu.Lock()
	assert.Equal(t, []string{"9", "8"}, grades)
	mu.Unlock()

	out, _, err = run(t, cfg, "", "student", "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "average score by subject")
	assert.Contains(t, out, "Olena")

	_, _, err = run(t, cfg, "", "student", "show", "olena")
	assert.ErrorContains(t, err, "invalid student id")
}
