package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Delete removes the subtree rooted at id.
//
// The deletion policy is asked about every item of the subtree before the
// first write; one refusal aborts with ErrPreconditionFailed. Then the
// sibling gap is closed, every edge ending inside the subtree is removed
// and finally the items themselves.
func (b *Backend) Delete(ctx context.Context, id string) error {
	if id == types.RootID {
		return fmt.Errorf("delete %s: %w", id, types.ErrRootImmutable)
	}

	var removed int
	err := b.withTx(ctx, "delete", func(tx *sql.Tx) error {
		at, err := lookupPlacement(ctx, tx, id)
		if err != nil {
			return err
		}

		ids, err := subtreeIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, d := range ids {
			ok, err := b.policy.SafeToDelete(ctx, d)
			if err != nil {
				return fmt.Errorf("deletion policy for %s: %w", d, err)
			}
			if !ok {
				return fmt.Errorf("item %s is still referenced: %w", d, types.ErrPreconditionFailed)
			}
		}

		if err := b.checkpoint("delete.compact"); err != nil {
			return err
		}
		if err := closeGap(ctx, tx, at.parent, at.sequence); err != nil {
			return err
		}

		if err := b.checkpoint("delete.edges"); err != nil {
			return err
		}
		if _, err := execIn(ctx, tx, "DELETE FROM closure WHERE descendant IN (%s)", ids); err != nil {
			return fmt.Errorf("deleting subtree edges: %w", err)
		}

		if err := b.checkpoint("delete.items"); err != nil {
			return err
		}
		n, err := execIn(ctx, tx, "DELETE FROM items WHERE id IN (%s)", ids)
		if err != nil {
			return fmt.Errorf("deleting subtree items: %w", err)
		}
		removed = int(n)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	b.logger.Debug("subtree deleted", "op", "delete", "id", id, "items", removed)
	return nil
}
