package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var smallModel = []string{"--embed-dim", "16", "--num-heads", "2", "--query-num", "3", "--log-level", "error"}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestRun(t *testing.T) {
	out, err := execute(t, append([]string{"run", "--batch", "2"}, smallModel...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "output:     [2 3 16]")
	assert.Contains(t, out, "query[0][2]:")
}

func TestRun_Deterministic(t *testing.T) {
	args := append([]string{"run", "--seed", "3"}, smallModel...)

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)

	queryLines := func(s string) []string {
		var lines []string
		for _, line := range strings.Split(s, "\n") {
			if strings.HasPrefix(line, "query[") || strings.HasPrefix(line, "mean/std:") {
				lines = append(lines, line)
			}
		}
		return lines
	}
	require.NotEmpty(t, queryLines(first))
	assert.Equal(t, queryLines(first), queryLines(second))
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := execute(t, "run", "--embed-dim", "10", "--num-heads", "3", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "divisible")
}

func TestRun_UnknownBackend(t *testing.T) {
	_, err := execute(t, append([]string{"run", "--backend", "tpu"}, smallModel...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestRun_WebGPUUnavailable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("webgpu may be available")
	}
	_, err := execute(t, append([]string{"run", "--backend", "webgpu"}, smallModel...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only available on windows")
}

func TestBench(t *testing.T) {
	out, err := execute(t, append([]string{"bench", "--iterations", "4", "--warmup", "1"}, smallModel...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "iterations:  4")
	assert.Contains(t, out, "p50 / p95:")
}

func TestBench_InvalidIterations(t *testing.T) {
	_, err := execute(t, append([]string{"bench", "--iterations", "0", "--warmup", "0"}, smallModel...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterations")
}
