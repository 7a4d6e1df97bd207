package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNoInput = errors.New("no input: pass a file or pipe text on stdin")

// readInput returns the note text from args[0], or stdin when no file (or "-")
// is given. It refuses to block on an interactive stdin.
func readInput(cmd *cobra.Command, args []string) (text, name string, err error) {
	if len(args) > 0 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(b), filepath.Base(args[0]), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", "", errNoInput
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" && len(args) == 0 {
		return "", "", errNoInput
	}
	return string(b), "stdin", nil
}
