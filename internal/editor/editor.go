package editor

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	StudentPrefix = "Student: "
	TopicPrefix   = "Topic: "
	SubjectPrefix = "Subject: "
)

// ErrUnchanged is returned when the editor exits without touching the draft.
var ErrUnchanged = errors.New("note unchanged; nothing to send")

// Draft is a note being composed in an external editor.
type Draft struct {
	Student string
	Topic   string
	Subject string
	Body    string
}

// ComposeContent creates the text presented to the editor.
func ComposeContent(d Draft) string {
	var b bytes.Buffer
	b.WriteString("# Mriynyk note\n")
	b.WriteString("# Lines starting with '#' above '---' are ignored.\n")
	b.WriteString("# Fill in the header fields. After '---', write the Markdown body.\n")
	for _, f := range [][2]string{
		{StudentPrefix, d.Student},
		{TopicPrefix, d.Topic},
		{SubjectPrefix, d.Subject},
	} {
		b.WriteString(f[0])
		b.WriteString(f[1])
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	if d.Body != "" {
		body := d.Body
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
	}
	return b.String()
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForID returns a private scratch path for draft id.
func PathForID(id string) (string, error) {
	name := sanitize(id) + ".mriynyk.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "mriynyk", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "mriynyk", "edit", name), nil
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	ed, err := PreferredEditor()
	if err != nil {
		return nil, false, err
	}
	// VISUAL/EDITOR may carry flags, so let the shell parse it.
	cmd := exec.Command("sh", "-c", ed+` "$FILEPATH"`)
	cmd.Env = append(os.Environ(), "FILEPATH="+path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// Edit runs the full compose/open/parse round trip for d and removes the
// scratch file afterwards.
func Edit(id string, d Draft) (Draft, error) {
	path, err := PathForID(id)
	if err != nil {
		return Draft{}, err
	}
	defer func() { _ = os.Remove(path) }()
	initial := []byte(ComposeContent(d))
	out, changed, err := OpenAt(path, initial)
	if err != nil {
		return Draft{}, err
	}
	if !changed {
		return Draft{}, ErrUnchanged
	}
	return ParseEdited(string(out)), nil
}

// ParseEdited extracts the header fields and body from the editor output.
func ParseEdited(s string) Draft {
	var d Draft
	inBody := false
	var bodyLines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
		case trimmed == "---":
			inBody = true
		case strings.HasPrefix(line, strings.TrimSpace(StudentPrefix)):
			d.Student = field(line, StudentPrefix)
		case strings.HasPrefix(line, strings.TrimSpace(TopicPrefix)):
			d.Topic = field(line, TopicPrefix)
		case strings.HasPrefix(line, strings.TrimSpace(SubjectPrefix)):
			d.Subject = field(line, SubjectPrefix)
		}
	}
	d.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	return d
}

func field(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(prefix)))
}
