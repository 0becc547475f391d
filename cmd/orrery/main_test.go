package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/orrery/internal/hierarchy"
)

const solar = "../../assets/systems/solar.sol"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSceneArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no arguments", nil, nil},
		{"two arguments", []string{"a.sol", "b.sol"}, nil},
		{"wrong suffix", []string{"solar.txt"}, hierarchy.ErrInvalidExtension},
		{"upper case suffix", []string{"solar.SOL"}, hierarchy.ErrInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sceneArg(nil, tt.args)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	assert.NoError(t, sceneArg(nil, []string{"solar.sol"}))
}

func TestRootRejectsBadArguments(t *testing.T) {
	_, err := execute(t, "validate", "notes.txt")
	assert.ErrorIs(t, err, hierarchy.ErrInvalidExtension)

	_, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", solar)
	require.NoError(t, err)

	assert.Contains(t, out, "sun.jpg")
	assert.Contains(t, out, "plume.jpg")
	assert.Contains(t, out, "12 bodies ok")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.sol"))
	assert.True(t, errors.Is(err, hierarchy.ErrNotFound), "got %v", err)
}

func TestDumpJSON(t *testing.T) {
	out, err := execute(t, "dump", solar, "--time", "0", "--json")
	require.NoError(t, err)

	var frame dumpFrame
	require.NoError(t, json.Unmarshal([]byte(out), &frame))
	require.Len(t, frame.Bodies, 12)

	assert.Equal(t, [3]float64{0, 0, 0}, frame.Bodies[0].Position)
	// At t=0 every orbit angle is zero, so mercury sits on +X at its distance.
	assert.InDelta(t, 7, frame.Bodies[1].Position[0], 1e-9)
	// moon = earth distance + moon distance
	assert.InDelta(t, 18.5, frame.Bodies[4].Position[0], 1e-9)
	assert.Equal(t, 3, frame.Bodies[4].Parent)
}

func TestDumpTable(t *testing.T) {
	out, err := execute(t, "dump", solar)
	require.NoError(t, err)
	assert.Contains(t, out, "TEXTURE")
	assert.Contains(t, out, "europa.jpg")
}

func TestRecordListExport(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "record", solar, "--data", data, "--duration", "10", "--dt", "0.5")
	require.NoError(t, err)
	m := regexp.MustCompile(`run: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	runID := m[1]
	assert.Contains(t, out, "21 samples of 12 bodies")

	out, err = execute(t, "list", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, runID)

	svgPath := filepath.Join(t.TempDir(), "run.svg")
	_, err = execute(t, "export-svg", runID, "--data", data, "-o", svgPath)
	require.NoError(t, err)
	svg, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(string(svg), "<path "))

	jsonPath := filepath.Join(t.TempDir(), "run.json")
	_, err = execute(t, "export-json", runID, "--data", data, "-o", jsonPath)
	require.NoError(t, err)
	assert.FileExists(t, jsonPath)

	out, err = execute(t, "plot", runID, "--data", data, "--body", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "mercury.jpg")

	_, err = execute(t, "analyze", runID, "--data", data, "--body", "99")
	assert.Error(t, err)
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "no runs found")
}
