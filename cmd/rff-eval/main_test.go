package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/fourier/internal/evaluation"
	"github.com/banshee-data/fourier/internal/monitoring"
)

func TestParseDims(t *testing.T) {
	dims, err := parseDims(" 16, 64 ,,256")
	require.NoError(t, err)
	assert.Equal(t, []int{16, 64, 256}, dims)

	for _, bad := range []string{"", ",", "abc", "16,-1", "0"} {
		_, err := parseDims(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSyntheticData_Seeded(t *testing.T) {
	a := syntheticData(4, 3, 9)
	b := syntheticData(4, 3, 9)
	r, c := a.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

func TestRun_WritesOutputs(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	monitoring.SetLogger(nil)

	dir := t.TempDir()
	cfg := Config{
		Vectors:  20,
		InputDim: 3,
		Sigma:    1,
		Dims:     []int{8, 512},
		Seed:     3,
		Workers:  2,
		PNGPath:  filepath.Join(dir, "sweep.png"),
		HTMLPath: filepath.Join(dir, "sweep.html"),
		JSONPath: filepath.Join(dir, "sweep.json"),
	}

	var stdout bytes.Buffer
	require.NoError(t, run(cfg, &stdout))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "D"))
	assert.True(t, strings.HasPrefix(lines[1], "8 "))

	for _, p := range []string{cfg.PNGPath, cfg.HTMLPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	data, err := os.ReadFile(cfg.JSONPath)
	require.NoError(t, err)
	var points []evaluation.Point
	require.NoError(t, json.Unmarshal(data, &points))
	require.Len(t, points, 2)
	assert.Equal(t, 512, points[1].DimFeatureSpace)
	assert.Equal(t, 190, points[1].Pairs)
}

func TestRun_CSVInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(input, []byte("0,0\n1,0\n0,1\n"), 0644))

	var stdout bytes.Buffer
	require.NoError(t, run(Config{InputPath: input, Sigma: 1, Dims: []int{64}, Seed: 1}, &stdout))
	assert.Contains(t, stdout.String(), "64")
}

func TestRun_Errors(t *testing.T) {
	err := run(Config{Vectors: 1, InputDim: 2, Sigma: 1, Dims: []int{4}}, &bytes.Buffer{})
	assert.Error(t, err)

	err = run(Config{InputPath: filepath.Join(t.TempDir(), "missing.csv"), Sigma: 1, Dims: []int{4}}, &bytes.Buffer{})
	assert.Error(t, err)

	err = run(Config{Vectors: 5, InputDim: 2, Sigma: 0, Dims: []int{4}}, &bytes.Buffer{})
	assert.Error(t, err)
}
