package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

var errInjected = errors.New("injected fault")

// A fault at any step of a mutation must leave both relations exactly as
// they were before the call.
func TestMutations_RollBackOnFault(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		step string
		run  func(b *Backend, ids map[string]string) error
	}{
		{"insert.item", func(b *Backend, ids map[string]string) error {
			_, err := b.Insert(ctx, ids["A"], types.ItemFields{Title: "new"})
			return err
		}},
		{"insert.self", func(b *Backend, ids map[string]string) error {
			_, err := b.Insert(ctx, ids["A"], types.ItemFields{Title: "new"})
			return err
		}},
		{"insert.ancestors", func(b *Backend, ids map[string]string) error {
			_, err := b.Insert(ctx, ids["A"], types.ItemFields{Title: "new"})
			return err
		}},
		{"move.sever", func(b *Backend, ids map[string]string) error {
			return b.Move(ctx, ids["A"], ids["B1"])
		}},
		{"move.compact", func(b *Backend, ids map[string]string) error {
			return b.Move(ctx, ids["A"], ids["B1"])
		}},
		{"move.splice", func(b *Backend, ids map[string]string) error {
			return b.Move(ctx, ids["A"], ids["B1"])
		}},
		{"move.sequence", func(b *Backend, ids map[string]string) error {
			return b.Move(ctx, ids["A"], ids["B1"])
		}},
		{"delete.compact", func(b *Backend, ids map[string]string) error {
			return b.Delete(ctx, ids["A"])
		}},
		{"delete.edges", func(b *Backend, ids map[string]string) error {
			return b.Delete(ctx, ids["A"])
		}},
		{"delete.items", func(b *Backend, ids map[string]string) error {
			return b.Delete(ctx, ids["A"])
		}},
		{"reorder.swap", func(b *Backend, ids map[string]string) error {
			_, err := b.Reorder(ctx, ids["B"], types.Up)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			b := newTestBackend(t)
			ids := sampleTree(t, b)
			before := snapshot(t, b)

			hit := false
			b.fault = func(step string) error {
				if step == tt.step {
					hit = true
					return errInjected
				}
				return nil
			}

			err := tt.run(b, ids)
			require.True(t, hit, "step %s was never reached", tt.step)
			assert.ErrorIs(t, err, errInjected)
			assert.ErrorIs(t, err, types.ErrBackendFailure)

			b.fault = nil
			assert.Equal(t, before, snapshot(t, b))
			requireValid(t, b)
		})
	}
}

// Without a fault the same mutations go through, so the table above
// exercises real work rather than early exits.
func TestMutations_CompleteWithoutFault(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	ids := sampleTree(t, b)

	var steps []string
	b.fault = func(step string) error {
		steps = append(steps, step)
		return nil
	}

	require.NoError(t, b.Move(ctx, ids["A"], ids["B1"]))
	require.NoError(t, b.Delete(ctx, ids["C"]))
	assert.Equal(t, []string{
		"move.sever", "move.compact", "move.splice", "move.sequence",
		"delete.compact", "delete.edges", "delete.items",
	}, steps)
	requireValid(t, b)
}
