package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2x3systems/ptk/libptk/catalog"
	"github.com/2x3systems/ptk/ptk"
	"github.com/2x3systems/ptk/ptkgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
  "ptk_version": "1.0",
  "universe": "test",
  "meta": {},
  "nodes": [
    {"id": "n1", "label": "one", "line": 1, "pos": 0, "features": []},
    {"id": "n2", "label": "two", "line": 1, "pos": 1, "features": []}
  ],
  "edges": [
    {"id": "e1", "source": "n1", "target": "n2", "type": "cross_sutra", "polarity": 1,
     "flow": {"dash": [0, 0], "speed": 1, "weight": 1}},
    {"id": "e2", "source": "n2", "target": "n1", "type": "cross_sutra", "polarity": -1,
     "flow": {"dash": [0, 0], "speed": 1, "weight": 1}}
  ],
  "groups": [],
  "render_hints": {}
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	pathname := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(pathname, []byte(content), 0600))
	return pathname
}

func lines(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestEnumCommand(t *testing.T) {
	out, err := execute(t, "enum", "--range", "level=0..1 m=-1..1 w=0", "--workers", "2")
	require.NoError(t, err)

	states := lines(out)
	require.Len(t, states, 15)
	assert.True(t, strings.HasPrefix(states[0], "state,000001,N=0,m=(-1 -1),w=(+0 +0),M="), states[0])
	assert.Equal(t, "state,000011,N=1,m=(+0 +0),w=(+0 +0),M=0.000000,Q=+0.000000", states[10])

	out, err = execute(t, "enum", "--range", "level=1 m=0 w=0", "--mass2")
	require.NoError(t, err)
	assert.Equal(t, []string{"state,000001,N=1,m=(+0 +0),w=(+0 +0),M=0.000000,M2=0.000000,Q=+0.000000"}, lines(out))

	_, err = execute(t, "enum", "--range", "q=1")
	assert.ErrorIs(t, err, ptk.ErrBadRange)
}

func TestEnumIntoCatalog(t *testing.T) {
	dir := t.TempDir()
	catPath := filepath.Join(dir, "states")

	out, err := execute(t, "enum", "--range", "level=0..1 m=-1..1", "--catalog", catPath)
	require.NoError(t, err)
	assert.Len(t, lines(out), 15)

	// already present states are dropped
	out, err = execute(t, "enum", "--range", "level=0..2 m=-1..1", "--catalog", catPath)
	require.NoError(t, err)
	assert.Len(t, lines(out), 9)

	// a catalog is keyed to its params
	paramsPath := writeFile(t, dir, "params.yaml", "r1: 3.0\n")
	_, err = execute(t, "enum", "--params", paramsPath, "--catalog", catPath)
	assert.ErrorIs(t, err, ptk.ErrParamsMismatch)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", validDoc)
	unpaired := writeFile(t, dir, "unpaired.json", strings.Replace(validDoc, `"polarity": -1`, `"polarity": 1`, 1))
	malformed := writeFile(t, dir, "malformed.json", strings.Replace(validDoc, `"cross_sutra"`, `"crossways"`, 1))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json: OK (2 nodes, 2 edges, 0 groups)")
	assert.Contains(t, out, "blake3: "+ptkgraph.Digest([]byte(validDoc)))

	out, err = execute(t, "validate", good, unpaired, malformed)
	assert.ErrorIs(t, err, errValidateFailed)
	assert.Contains(t, out, "good.json: OK")
	assert.Contains(t, out, "unpaired.json: FAIL")
	assert.Contains(t, out, ptkgraph.CheckPolarityPairing)
	assert.Contains(t, out, "malformed.json: FAIL")
	assert.Contains(t, out, `unknown edge type "crossways"`)

	_, err = execute(t, "validate", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, errValidateFailed)
}

func TestValidateArchive(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", validDoc)
	archivePath := filepath.Join(dir, "archive")

	_, err := execute(t, "validate", "--archive", archivePath, good)
	require.NoError(t, err)

	ctx := ptk.NewCatalogContext()
	defer ctx.Close()

	cat, err := catalog.OpenCatalog(ctx, ptk.CatalogOpts{
		DbPathName: archivePath,
		ReadOnly:   true,
		Params:     ptk.DefaultParams(),
	})
	require.NoError(t, err)
	defer cat.Close()

	raw, err := cat.GetDocument(ptkgraph.Digest([]byte(validDoc)))
	require.NoError(t, err)
	assert.Equal(t, validDoc, string(raw))
}

func TestPyCommand(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "enum.py", `
import _ptk
ws = _ptk.GetWorkspace()
n = ws.Enumerate("level=0..1 m=-1..1 w=0").Go()
assert n == 15, n
assert _ptk.spin_label(7) == 0
`)
	require.True(t, filepath.IsAbs(script))
	_, err := execute(t, "py", script)
	assert.NoError(t, err)

	// relative to the working directory
	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, err := filepath.Rel(wd, script)
	require.NoError(t, err)
	_, err = execute(t, "py", rel)
	assert.NoError(t, err)

	broken := writeFile(t, dir, "broken.py", "import _ptk\nassert _ptk.level_match(1, 2)\n")
	_, err = execute(t, "py", broken)
	assert.Error(t, err)
}
