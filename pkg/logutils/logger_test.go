package logutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("tag", "csdb")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	closer()
}

func TestNew_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "dmview.log")

	l, closer, err := New("info", file)
	require.NoError(t, err)

	l.Debug().Msg("dropped")
	l.Info().Str("dm_path", "DMC-A.xml").Msg("preview loaded")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "preview loaded", entry["message"])
	assert.Equal(t, "DMC-A.xml", entry["dm_path"])
	assert.NotContains(t, string(data), "dropped")
}

func TestBuild_Hooks(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, zerolog.DebugLevel, tagHook{})
	l.Debug().Msg("request")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "csdb", entry["tag"])
	assert.Contains(t, entry, "time")
}
