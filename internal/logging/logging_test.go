package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "minutes.log")

	log, closer, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)
	log.Info().Str("token", "abc123").Msg("transcription complete")
	log.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "transcription complete", entry["message"])
	assert.Equal(t, "abc123", entry["token"])
	assert.Equal(t, "info", entry["level"])
}

func TestConsoleAndDebug(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Level: "warn", Console: &buf, Debug: true})
	require.NoError(t, err)
	defer closer.Close()

	log.Debug().Msg("request complete")
	assert.Contains(t, buf.String(), "request complete")
}

func TestNoOutputsIsNop(t *testing.T) {
	log, closer, err := New(Options{})
	require.NoError(t, err)
	log.Info().Msg("dropped")
	assert.NoError(t, closer.Close())
}

func TestBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
