package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

func TestVerify_DetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(ids map[string]string) (string, []any)
		want    string
	}{
		{
			name: "second parent",
			corrupt: func(ids map[string]string) (string, []any) {
				return "INSERT INTO closure (ancestor, descendant, depth) VALUES (?, ?, 1)", []any{ids["B"], ids["A1"]}
			},
			want: "2 parent edges",
		},
		{
			name: "missing transitive edge",
			corrupt: func(ids map[string]string) (string, []any) {
				return "DELETE FROM closure WHERE ancestor = ? AND descendant = ?", []any{types.RootID, ids["A1"]}
			},
			want: "missing edge",
		},
		{
			name: "wrong depth",
			corrupt: func(ids map[string]string) (string, []any) {
				return "UPDATE closure SET depth = 5 WHERE ancestor = ? AND descendant = ?", []any{types.RootID, ids["A1"]}
			},
			want: "want 2",
		},
		{
			name: "missing self edge",
			corrupt: func(ids map[string]string) (string, []any) {
				return "DELETE FROM closure WHERE ancestor = ? AND descendant = ?", []any{ids["C"], ids["C"]}
			},
			want: "no self edge",
		},
		{
			name: "sequence gap",
			corrupt: func(ids map[string]string) (string, []any) {
				return "UPDATE items SET sequence = 7 WHERE id = ?", []any{ids["C"]}
			},
			want: "sequences [0 1 7]",
		},
		{
			name: "orphan",
			corrupt: func(ids map[string]string) (string, []any) {
				return "DELETE FROM closure WHERE descendant = ? AND depth > 0", []any{ids["C"]}
			},
			want: "0 parent edges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			ids := sampleTree(t, b)
			requireValid(t, b)

			query, args := tt.corrupt(ids)
			_, err := b.db.Exec(query, args...)
			require.NoError(t, err)

			err = b.Verify(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvariantViolated)

			var inv *types.InvariantError
			require.True(t, errors.As(err, &inv))
			require.NotEmpty(t, inv.Violations)
			assert.True(t, containsSubstring(inv.Violations, tt.want),
				"violations %q should mention %q", inv.Violations, tt.want)
		})
	}
}

func TestCheckInvariants_Cycle(t *testing.T) {
	parents := map[string][]string{
		"a": {"b"},
		"b": {"a"},
	}
	_, ok := chainToRoot("a", parents, 2)
	assert.False(t, ok)

	parents = map[string][]string{
		"a": {types.RootID},
		"b": {"a"},
	}
	want, ok := chainToRoot("b", parents, 3)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"b": 0, "a": 1, types.RootID: 2}, want)
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
