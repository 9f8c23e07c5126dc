package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rerender/internal/version"
)

func TestVersionCommand_Human(t *testing.T) {
	stdout, _, err := executeCommand("version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "rerender")
	assert.Contains(t, stdout, "dev")
}

func TestVersionCommand_JSON(t *testing.T) {
	stdout, _, err := executeCommand("version", "--json")
	require.NoError(t, err)

	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))

	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}

func TestVersionCommand_NoArgs(t *testing.T) {
	_, _, err := executeCommand("version", "extra")
	require.Error(t, err)
}

func TestVersionCommand_Short(t *testing.T) {
	stdout, _, err := executeCommand("version", "--short")
	require.NoError(t, err)

	assert.Equal(t, "dev\n", stdout)
}

func TestVersionCommand_JSONAndShortConflict(t *testing.T) {
	_, _, err := executeCommand("version", "--json", "--short")
	require.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			stdout, _, err := executeCommand("completion", shell)
			require.NoError(t, err)
			assert.Contains(t, stdout, "rerender")
		})
	}
}

func TestCompletionCommand_UnknownShell(t *testing.T) {
	_, _, err := executeCommand("completion", "tcsh")
	require.Error(t, err)
}
