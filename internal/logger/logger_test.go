package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Info("generator ready", "query_num", 8, "embed_dim", 256)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "generator ready", entry["message"])
	assert.EqualValues(t, 8, entry["query_num"])
	assert.EqualValues(t, 256, entry["embed_dim"])
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", true, true},
		{"DEBUG", true, true},
		{"info", false, true},
		{"warn", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level, "json")

			l.Debug("d")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			l.Warn("w")
			assert.Equal(t, tt.wantWarn, buf.Len() > 0)
		})
	}
}

func TestLogger_ErrorAndWith(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json").With("component", "querygen")

	l.Error("forward failed", "err", errors.New("boom"), 42, "odd key")

	out := buf.String()
	assert.Contains(t, out, `"component":"querygen"`)
	assert.Contains(t, out, `"err":"boom"`)
	assert.Contains(t, out, `"42":"odd key"`)
}

func TestSetup(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	Setup("debug", "console")
	require.NotNil(t, Log)
	assert.NotSame(t, prev, Log)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "console").Info("hello", "k", "v")
	assert.True(t, strings.Contains(buf.String(), "hello"))
	assert.Contains(t, buf.String(), "k=")
}
