package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdited(t *testing.T) {
	input := `# comment line
Student: s-42
Topic:   Fractions
Subject: Math
---
# Fractions

A fraction is a part of a whole.
`
	d := ParseEdited(input)
	assert.Equal(t, "s-42", d.Student)
	assert.Equal(t, "Fractions", d.Topic)
	assert.Equal(t, "Math", d.Subject)
	// Headings in the body are kept.
	assert.Equal(t, "# Fractions\n\nA fraction is a part of a whole.", d.Body)
}

func TestComposeRoundTrip(t *testing.T) {
	in := Draft{Student: "s-1", Topic: "Verbs", Subject: "English", Body: "- run\n- jump"}
	content := ComposeContent(in)
	assert.Contains(t, content, "Topic: Verbs\n")
	assert.Contains(t, content, "---\n- run\n- jump\n")
	assert.Equal(t, in, ParseEdited(content))
}

func TestParseEditedWithoutSeparator(t *testing.T) {
	d := ParseEdited("Student: a\nstray line\n")
	assert.Equal(t, "a", d.Student)
	assert.Empty(t, d.Body)
}

func TestPathForID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path, err := PathForID("draft 1/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mriynyk", "draft-1-x.mriynyk.md"), path)
}

func TestEditWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i -e 's/^Topic: $/Topic: Cells/'")

	d, err := Edit("abc", Draft{Student: "s-9", Body: "Cells divide."})
	require.NoError(t, err)
	assert.Equal(t, "Cells", d.Topic)
	assert.Equal(t, "s-9", d.Student)
	assert.Equal(t, "Cells divide.", d.Body)

	_, statErr := os.Stat(filepath.Join(dir, "mriynyk", "abc.mriynyk.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditUnchanged(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("VISUAL", "true")
	_, err := Edit("same", Draft{Body: "x"})
	assert.ErrorIs(t, err, ErrUnchanged)
}
