package sqlite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

func testConfig(dir string) types.Config {
	return types.Config{
		Backend: types.BackendSQLite,
		DataDir: dir,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestBackend attaches a backend over a fresh temporary directory.
func newTestBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	b := NewBackend(opts...)
	require.NoError(t, b.Attach(testConfig(t.TempDir())))
	t.Cleanup(func() { b.Detach() })
	return b
}

func mustInsert(t *testing.T, b *Backend, parent, title string) string {
	t.Helper()
	id, err := b.Insert(context.Background(), parent, types.ItemFields{
		Title: title,
		URL:   "/" + title,
	})
	require.NoError(t, err)
	return id
}

// childTitles returns the titles of parent's children in sequence order.
func childTitles(t *testing.T, b *Backend, parent string) []string {
	t.Helper()
	items, err := children(context.Background(), b.rdb, parent)
	require.NoError(t, err)
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	return titles
}

func requireValid(t *testing.T, b *Backend) {
	t.Helper()
	require.NoError(t, b.Verify(context.Background()))
}

// snapshot renders both relations as sorted rows.
func snapshot(t *testing.T, b *Backend) []string {
	t.Helper()
	var out []string

	rows, err := b.db.Query("SELECT id, title, url, sequence, COALESCE(target, '<nil>') FROM items ORDER BY id")
	require.NoError(t, err)
	for rows.Next() {
		var id, title, url, target string
		var seq int
		require.NoError(t, rows.Scan(&id, &title, &url, &seq, &target))
		out = append(out, fmt.Sprintf("item %s %q %q %d %s", id, title, url, seq, target))
	}
	require.NoError(t, rows.Err())
	rows.Close()

	rows, err = b.db.Query("SELECT ancestor, descendant, depth FROM closure ORDER BY ancestor, descendant")
	require.NoError(t, err)
	for rows.Next() {
		var a, d string
		var depth int
		require.NoError(t, rows.Scan(&a, &d, &depth))
		out = append(out, fmt.Sprintf("edge %s %s %d", a, d, depth))
	}
	require.NoError(t, rows.Err())
	rows.Close()
	return out
}

// sampleTree builds
//
//	ROOT
//	  A
//	    A1
//	    A2
//	  B
//	    B1
//	  C
func sampleTree(t *testing.T, b *Backend) map[string]string {
	t.Helper()
	ids := map[string]string{}
	ids["A"] = mustInsert(t, b, types.RootID, "A")
	ids["A1"] = mustInsert(t, b, ids["A"], "A1")
	ids["A2"] = mustInsert(t, b, ids["A"], "A2")
	ids["B"] = mustInsert(t, b, types.RootID, "B")
	ids["B1"] = mustInsert(t, b, ids["B"], "B1")
	ids["C"] = mustInsert(t, b, types.RootID, "C")
	return ids
}
