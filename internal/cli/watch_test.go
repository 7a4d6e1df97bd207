package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFileDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	other := filepath.Join(dir, "other.md")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 50*time.Millisecond, func() error {
			calls <- struct{}{}
			return nil
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	for _, s := range []string{"b", "bc", "bcd"} {
		require.NoError(t, os.WriteFile(path, []byte(s), 0o600))
	}

	select {
	case <-calls:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-calls:
		t.Fatal("burst reported twice")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRenderWatchNeedsFile(t *testing.T) {
	cfg := writeConfigTOML(t, "")
	_, _, err := run(t, cfg, sampleNote, "render", "--watch")
	assert.ErrorIs(t, err, errWatchNeedsFile)
}
