package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	require.NoError(t, s.Err())
	return lines
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	sampleTree(t, b)
	dir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, b.Export(ctx, dir))

	items := readLines(t, filepath.Join(dir, itemsJSONL))
	assert.Len(t, items, 7)
	var root itemJSON
	require.NoError(t, json.Unmarshal([]byte(items[0]), &root))
	assert.Equal(t, types.RootID, root.ID)
	assert.Nil(t, root.Target)

	edges := readLines(t, filepath.Join(dir, closureJSONL))
	// 7 self edges, 6 parent edges, 3 grandparent edges.
	assert.Len(t, edges, 16)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestBackend(t)
	ids := sampleTree(t, src)
	target := "t-1"
	require.NoError(t, src.Edit(ctx, ids["B1"], types.ItemFields{Title: "B1", URL: "/b1", Target: &target}))
	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	dst := newTestBackend(t)
	mustInsert(t, dst, types.RootID, "to be replaced")
	require.NoError(t, dst.Import(ctx, dir))

	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
	requireValid(t, dst)

	it, err := dst.Get(ctx, ids["B1"])
	require.NoError(t, err)
	require.NotNil(t, it.Target)
	assert.Equal(t, target, *it.Target)
}

func TestImport_SkipsMalformedLines(t *testing.T) {
	ctx := context.Background()
	src := newTestBackend(t)
	sampleTree(t, src)
	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	path := filepath.Join(dir, itemsJSONL)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dst := newTestBackend(t)
	require.NoError(t, dst.Import(ctx, dir))
	assert.Equal(t, snapshot(t, src), snapshot(t, dst))
}

func TestImport_RejectsBrokenTree(t *testing.T) {
	ctx := context.Background()
	src := newTestBackend(t)
	ids := sampleTree(t, src)
	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	// Drop A1's grandparent edge from the export.
	path := filepath.Join(dir, closureJSONL)
	var kept []edgeJSON
	for _, line := range readLines(t, path) {
		var e edgeJSON
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e.Ancestor == types.RootID && e.Descendant == ids["A1"] {
			continue
		}
		kept = append(kept, e)
	}
	require.NoError(t, writeJSONL(path, kept))

	dst := newTestBackend(t)
	existing := mustInsert(t, dst, types.RootID, "keep me")
	before := snapshot(t, dst)

	err := dst.Import(ctx, dir)
	require.Error(t, err)
	var inv *types.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.True(t, containsSubstring(inv.Violations, "missing edge"))

	assert.Equal(t, before, snapshot(t, dst))
	_, err = dst.Get(ctx, existing)
	assert.NoError(t, err)
}

func TestImport_DanglingEdgeRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, writeJSONL(filepath.Join(dir, itemsJSONL), []itemJSON{
		{ID: types.RootID, Title: types.RootTitle, URL: types.RootURL},
	}))
	require.NoError(t, writeJSONL(filepath.Join(dir, closureJSONL), []edgeJSON{
		{Ancestor: types.RootID, Descendant: types.RootID},
		{Ancestor: types.RootID, Descendant: "ghost", Depth: 1},
	}))

	b := newTestBackend(t)
	sampleTree(t, b)
	before := snapshot(t, b)

	err := b.Import(ctx, dir)
	assert.ErrorIs(t, err, types.ErrBackendFailure)
	assert.Equal(t, before, snapshot(t, b))
}

func TestImport_MissingFiles(t *testing.T) {
	b := newTestBackend(t)
	err := b.Import(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, types.ErrBackendFailure)
	requireValid(t, b)
}

func TestImport_RollsBackOnFault(t *testing.T) {
	ctx := context.Background()
	src := newTestBackend(t)
	sampleTree(t, src)
	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	for _, step := range []string{"import.items", "import.closure"} {
		t.Run(step, func(t *testing.T) {
			b := newTestBackend(t)
			mustInsert(t, b, types.RootID, "local")
			before := snapshot(t, b)

			b.fault = func(s string) error {
				if s == step {
					return errInjected
				}
				return nil
			}
			assert.ErrorIs(t, b.Import(ctx, dir), errInjected)
			b.fault = nil
			assert.Equal(t, before, snapshot(t, b))
		})
	}
}
