package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-xgb/sklearn/xgboost"
)

// writeStumpModel writes a binary:logistic dump with numRounds single-split trees.
func writeStumpModel(t *testing.T, numRounds int) string {
	t.Helper()
	return writeModel(t, numRounds, 0.5)
}

func writeModel(t *testing.T, numRounds int, baseScore float32) string {
	t.Helper()
	var buf bytes.Buffer
	put := func(vs ...interface{}) {
		for _, v := range vs {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
		}
	}
	str := func(s string) {
		put(uint64(len(s)))
		buf.WriteString(s)
	}

	buf.WriteString(xgboost.Magic)
	put(baseScore, uint32(2), int32(0), int32(0), int32(0), make([]int32, 29))
	str("binary:logistic")
	str("gbtree")
	put(int32(numRounds), int32(1), int32(2), int32(0), uint64(0), int32(1), int32(0), make([]int32, 32))
	for i := 0; i < numRounds; i++ {
		put(int32(1), int32(3), int32(0), int32(1), int32(2), int32(0), make([]int32, 31))
		put(int32(-1), int32(1), int32(2), uint32(1), float32(0.5))
		put(int32(0), int32(-1), int32(-1), uint32(0), float32(-1))
		put(int32(0), int32(-1), int32(-1), uint32(0), float32(1))
		for j := 0; j < 3; j++ {
			put(float32(0), float32(1), float32(0), int32(0))
		}
	}

	path := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(context.Background(), append([]string{"xgbinspect"}, args...))
	return out.String(), err
}

func TestInspectJSON(t *testing.T) {
	model := writeStumpModel(t, 3)

	out, err := run(t, "inspect", "--model", model, "--log-level", "error", "--trees")
	require.NoError(t, err)

	var got summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, xgboost.TaskClassification, got.Metadata.Task)
	assert.Equal(t, "binary:logistic", got.Header.Objective)
	assert.Equal(t, 3, got.Metadata.NumTrees)
	assert.Equal(t, xgboost.Float(0), got.BaseScore)
	assert.Equal(t, 1, got.MaxDepth)
	require.Len(t, got.Trees, 3)
	assert.Equal(t, treeSummary{Index: 2, Nodes: 3, Leaves: 2, MaxDepth: 1}, got.Trees[2])
}

func TestInspectRange(t *testing.T) {
	model := writeStumpModel(t, 4)

	out, err := run(t, "inspect", "-m", model, "--start", "1", "--end", "3", "--trees", "--log-level", "error")
	require.NoError(t, err)

	var got summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, xgboost.IterationRange{Start: 1, End: 3}, got.Metadata.Range)
	require.Len(t, got.Trees, 2)
	assert.Equal(t, 1, got.Trees[0].Index)

	_, err = run(t, "inspect", "-m", model, "--start", "1", "--log-level", "error")
	assert.Error(t, err)

	_, err = run(t, "inspect", "-m", model, "--start", "2", "--end", "9", "--log-level", "error")
	assert.ErrorContains(t, err, "iteration range")
}

func TestInspectConfigFile(t *testing.T) {
	model := writeStumpModel(t, 1)
	cfgPath := filepath.Join(t.TempDir(), "xgbinspect.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: yaml\nlibrary_version: 0.90.0\nlog_level: error\n"), 0o600))

	out, err := run(t, "inspect", "-m", model, "--config", cfgPath)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	// Before 1.0 the stored base score is already a margin.
	assert.Equal(t, 0.5, got["base_score"])
	meta, ok := got["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "0.90.0", meta["library_version"])

	// Flags take precedence over the file.
	out, err = run(t, "inspect", "-m", model, "--config", cfgPath, "--format", "json", "--library-version", "1.7.0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestInspectErrors(t *testing.T) {
	_, err := run(t, "inspect")
	assert.Error(t, err, "model flag is required")

	_, err = run(t, "inspect", "-m", filepath.Join(t.TempDir(), "missing.bin"), "--log-level", "error")
	assert.Error(t, err)

	model := writeStumpModel(t, 1)
	_, err = run(t, "inspect", "-m", model, "--format", "toml", "--log-level", "error")
	assert.ErrorContains(t, err, "format")

	_, err = run(t, "inspect", "-m", model, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestDump(t *testing.T) {
	model := writeStumpModel(t, 2)
	out := filepath.Join(t.TempDir(), "snapshot.json")

	_, err := run(t, "dump", "-m", model, "-o", out, "--log-level", "error")
	require.NoError(t, err)

	ens, err := xgboost.LoadSnapshot(out)
	require.NoError(t, err)
	assert.Len(t, ens.Trees, 2)
	assert.Less(t, ens.Trees[0].Threshold(0), float32(0.5))

	stdout, err := run(t, "dump", "-m", model, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"children_left"`)
}

func TestNonFiniteBaseScore(t *testing.T) {
	// A stored probability of 1 has an infinite logit.
	model := writeModel(t, 1, 1)

	out, err := run(t, "inspect", "-m", model, "--format", "json", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, `"+Inf"`)

	var got summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, math.IsInf(float64(got.BaseScore), 1))

	snapshot := filepath.Join(t.TempDir(), "snapshot.json")
	_, err = run(t, "dump", "-m", model, "-o", snapshot, "--log-level", "error")
	require.NoError(t, err)

	ens, err := xgboost.LoadSnapshot(snapshot)
	require.NoError(t, err)
	assert.True(t, math.IsInf(ens.BaseScore, 1))
}

func TestObjectives(t *testing.T) {
	out, err := run(t, "objectives")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(xgboost.SupportedObjectives()))
	assert.Contains(t, out, "multi:softprob")
}
