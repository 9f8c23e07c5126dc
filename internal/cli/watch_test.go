package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandResult struct {
	stderr string
	err    error
}

// startWatch runs the watch command until the returned cancel is called.
func startWatch(t *testing.T, args ...string) (context.CancelFunc, <-chan commandResult) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan commandResult, 1)

	go func() {
		_, stderr, err := executeCommandContext(ctx, append([]string{"watch"}, args...)...)
		done <- commandResult{stderr: stderr, err: err}
	}()

	t.Cleanup(cancel)

	return cancel, done
}

func waitResult(t *testing.T, done <-chan commandResult) commandResult {
	t.Helper()

	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("watch command did not stop")
		return commandResult{}
	}
}

func TestWatchCommand_InitialRenderAndShutdown(t *testing.T) {
	root := newTestProject(t)
	index := filepath.Join(root, "index.html")

	cancel, done := startWatch(t, "--root", root, "--initial")

	assert.Eventually(t, func() bool {
		_, err := os.Stat(index)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	res := waitResult(t, done)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "watching ")
	assert.Contains(t, res.stderr, "rendered 3 artifacts")
	assert.Contains(t, res.stderr, "shutting down watcher")
	assert.NotContains(t, res.stderr, "templates re-rendered", "one status line per render at the default log level")
}

func TestWatchCommand_RendersOnChange(t *testing.T) {
	root := newTestProject(t)
	index := filepath.Join(root, "index.html")

	cancel, done := startWatch(t, "--root", root)

	// Keep touching the config until the watcher has subscribed and picked
	// up a change.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(root, "config.json"), []byte(`{"title": "Live"}`), 0o644) //nolint:gosec // test

		data, err := os.ReadFile(index) //nolint:gosec // test
		return err == nil && strings.Contains(string(data), "Live")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	res := waitResult(t, done)
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "change detected: ")
}

func TestWatchCommand_MissingTemplatesDir(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "config.json"), `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "images"), 0o755))

	_, _, err := executeCommand("watch", "--root", root)
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, err.Error(), "watching directory")
}
