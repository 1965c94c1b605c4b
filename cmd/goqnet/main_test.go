package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/2x3systems/goqnet/goqnet"
	"github.com/2x3systems/goqnet/libqnet"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd(nil)
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEnumToStdout(t *testing.T) {
	out, err := execute("enum", "3", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `n3d3,000001,3,"(3,3,3)","01 01 01"`, lines[0])
	assert.Equal(t, `n3d3,000005,3,"(3,5,6)","01 02 12"`, lines[4])
}

func TestEnumToRecordFile(t *testing.T) {
	dir := t.TempDir()
	pathname := filepath.Join(dir, "n3d4.json")
	dotDir := filepath.Join(dir, "dot")
	metricsPath := filepath.Join(dir, "goqnet.prom")

	_, err := execute("enum", "3", "4", "--swap", "--reversal", "-o", pathname, "--dot", dotDir, "--metrics", metricsPath, "-w", "2")
	require.NoError(t, err)

	rec, err := libqnet.ReadRecordFile(pathname)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Depth)
	assert.True(t, rec.SwapConjugation)
	assert.True(t, rec.TimeReversal)
	assert.Len(t, rec.Networks, 8)

	dots, err := os.ReadDir(dotDir)
	require.NoError(t, err)
	assert.Len(t, dots, 8)

	_, err = os.Stat(metricsPath)
	assert.NoError(t, err)
}

func TestEnumResumeFromCatalog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cat")

	_, err := execute("enum", "3", "3", "--catalog", dir, "--keyset", "lsm")
	require.NoError(t, err)

	// the same catalog dir spelled two ways is opened once
	out, err := execute("enum", "3", "4", "--catalog", dir+string(filepath.Separator), "--resume", filepath.Join(dir, "."))
	require.NoError(t, err)
	assert.Equal(t, 13, strings.Count(out, "n3d4,"))

	out, err = execute("enum", "3", "5", "--catalog", dir, "--resume", dir)
	require.NoError(t, err)
	assert.Equal(t, 38, strings.Count(out, "\n"))

	_, err = execute("enum", "4", "5", "--resume", dir)
	assert.ErrorIs(t, err, goqnet.ErrResumeMismatch)

	out, err = execute("info", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "nqubit: 3\n")
	assert.Contains(t, out, "depth  4: 13 networks\n")
	assert.Contains(t, out, "depth  5: 38 networks\n")
	assert.Contains(t, out, "final depth 5: 38 networks (time reversal: false)\n")

	// a target below the stored depth resumes from the stored record of that depth
	out, err = execute("enum", "3", "2", "--resume", dir)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "n3d2,"))
	assert.Equal(t, 2, strings.Count(out, "\n"))

	out, err = execute("enum", "3", "3", "--catalog", dir, "--resume", dir)
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, "n3d3,"))
	assert.Equal(t, 5, strings.Count(out, "\n"))

	out, err = execute("info", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "depth  5: 38 networks\n")
	assert.Contains(t, out, "final depth 3: 5 networks (time reversal: false)\n")
}

func TestReduce(t *testing.T) {
	dir := t.TempDir()
	pathname := filepath.Join(dir, "dupes.yaml")
	rec := goqnet.Record{NQubit: 3, Depth: 2, Networks: [][]int{{3, 5}, {3, 6}, {3, 3}, {5, 5}, {6, 5}}}
	require.NoError(t, libqnet.WriteRecordFile(pathname, &rec))

	out, err := execute("reduce", pathname)
	require.NoError(t, err)
	assert.Equal(t, "reduced,000001,2,\"(3,5)\",\"01 02\"\nreduced,000002,2,\"(3,3)\",\"01 01\"\n", out)

	outPath := filepath.Join(dir, "reduced.msgpack")
	_, err = execute("reduce", pathname, "--reversal", "-o", outPath)
	require.NoError(t, err)
	reduced, err := libqnet.ReadRecordFile(outPath)
	require.NoError(t, err)
	assert.True(t, reduced.TimeReversal)
	assert.Equal(t, [][]int{{3, 5}, {3, 3}}, reduced.Networks)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"nqubit": 3, "depth": 2, "networks": [[3, 7]]}`), 0o644))
	_, err = execute("reduce", bad)
	assert.ErrorIs(t, err, goqnet.ErrCorruptRecord)
}

func TestExitCodes(t *testing.T) {
	for _, args := range [][]string{
		{"enum", "1", "3"},
		{"enum", "x", "3"},
		{"enum", "3", "0"},
		{"enum", "3", "3", "--keyset", "btree"},
	} {
		_, err := execute(args...)
		assert.Equal(t, exitBadConfig, exitCode(err), "%v", args)
	}

	_, err := execute("info", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, exitFailure, exitCode(err))

	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitInterrupted, exitCode(errors.Wrap(context.Canceled, "depth 4")))
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cat")
	script := filepath.Join(dir, "enum.py")
	src := "import _pyqnet as q\n" +
		"cat = q.GetWorkspace().OpenCatalog(" + strconv.Quote(dbPath) + ", 3)\n" +
		"if len(cat.Enumerate(4)) != 13:\n" +
		"    raise AssertionError(\"depth 4\")\n" +
		"cat.Close()\n"
	require.NoError(t, os.WriteFile(script, []byte(src), 0o644))

	_, err := execute("run", script)
	require.NoError(t, err)

	out, err := execute("info", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "depth  4: 13 networks\n")

	bad := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(bad, []byte("raise ValueError(\"nope\")\n"), 0o644))
	_, err = execute("run", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}
